package converter

// MOD effect commands that need more than a table lookup
const (
	effectArpeggio     = 0x0
	effectPositionJump = 0xB
	effectPatternBreak = 0xD
	effectExtended     = 0xE
)

// effectTable maps plain MOD effects to MUS commands
var effectTable = map[uint8]Command{
	0x1: CmdPortaUp,
	0x2: CmdPortaDown,
	0x3: CmdTonePorta,
	0x4: CmdVibrato,
	0x5: CmdTonePortaVolSlide,
	0x6: CmdVibratoVolSlide,
	0x7: CmdTremolo,
	0x9: CmdSampleOffset,
	0xA: CmdVolumeSlide,
	0xC: CmdSetVolume,
	0xF: CmdSetSpeed,
}

// extendedTable maps Exy sub-commands, keyed by x, to MUS commands
var extendedTable = map[uint8]Command{
	0x1: CmdFinePortaUp,
	0x2: CmdFinePortaDown,
	0x9: CmdRetrigger,
	0xA: CmdFineVolumeUp,
	0xB: CmdFineVolumeDown,
	0xC: CmdNoteCut,
}

// TranslateEffect converts a MOD effect and parameter to a MUS command.
// Position jump and pattern break produce a control signal instead.
func TranslateEffect(effect, param uint8) Translation {
	switch effect & 0x0F {
	case effectArpeggio:
		if param != 0 {
			return Translation{Command: CmdArpeggio, Param: param}
		}
		return Translation{Command: CmdNone}

	case effectPositionJump:
		return Translation{Control: ControlJump, Target: int(param)}

	case effectPatternBreak:
		// The row in the parameter is not honoured; the next pattern
		// always starts at row 0.
		return Translation{Control: ControlBreak, Target: 0}

	case effectExtended:
		if cmd, ok := extendedTable[param>>4]; ok {
			return Translation{Command: cmd, Param: param & 0x0F}
		}
		return Translation{Command: CmdNone}
	}

	if cmd, ok := effectTable[effect&0x0F]; ok {
		return Translation{Command: cmd, Param: param}
	}
	return Translation{Command: CmdNone}
}
