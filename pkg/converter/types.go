// Package converter translates ProTracker MOD files into the MUS format
// used by Psycho Pinball and Micro Machines 2
package converter

// Note is a chromatic note index 1-36, or NoNote
type Note uint8

// Instrument is a sample slot number 1-31, or NoInstrument
type Instrument uint8

const (
	NoNote       Note       = 0
	NoInstrument Instrument = 0
)

// Command is a MUS effect command code
type Command uint8

// MUS effect commands. The MOD effect each one comes from is noted alongside.
const (
	CmdSetVolume         Command = 0x00 // Cxx
	CmdFineVolumeUp      Command = 0x01 // EAx
	CmdFineVolumeDown    Command = 0x02 // EBx
	CmdFinePortaUp       Command = 0x03 // E1x
	CmdFinePortaDown     Command = 0x04 // E2x
	CmdSampleOffset      Command = 0x06 // 9xx
	CmdTonePorta         Command = 0x07 // 3xx
	CmdTonePortaVolSlide Command = 0x08 // 5xy
	CmdVibrato           Command = 0x09 // 4xy
	CmdVibratoVolSlide   Command = 0x0A // 6xy
	CmdArpeggio          Command = 0x0B // 0xy, xy != 0
	CmdPortaUp           Command = 0x0C // 1xx
	CmdPortaDown         Command = 0x0D // 2xx
	CmdVolumeSlide       Command = 0x0E // Axy
	CmdRetrigger         Command = 0x0F // E9x
	CmdTremolo           Command = 0x10 // 7xy
	CmdNoteCut           Command = 0x11 // ECx
	CmdSetSpeed          Command = 0x12 // Fxx
	CmdNone              Command = 0x14
)

// Event is one translated (channel, row) record as written to the
// MUS event stream
type Event struct {
	Note       Note
	Instrument Instrument
	Command    Command
	Param      uint8
}

// Bytes returns the 4-byte stream encoding of the event
func (e Event) Bytes() [4]byte {
	return [4]byte{uint8(e.Note), uint8(e.Instrument), uint8(e.Command), e.Param}
}

// Control is a flow-control signal raised by an effect instead of an event
type Control int

const (
	ControlNone Control = iota
	// ControlJump moves playback to the order in Translation.Target
	ControlJump
	// ControlBreak ends the pattern; the next order starts at Translation.Target
	ControlBreak
)

func (c Control) String() string {
	return [...]string{"none", "jump", "break"}[c]
}

// Translation is the result of translating one MOD effect. When Control
// is not ControlNone, Command and Param carry no meaning.
type Translation struct {
	Command Command
	Param   uint8
	Control Control
	Target  int
}

// Position identifies the cell the sequencer is currently processing
type Position struct {
	Order   int
	Pattern int
	Row     int
	Channel int
	Step    int // rows started since the beginning of the song
}

// Stats summarises a conversion
type Stats struct {
	OrdersPlayed  int `json:"orders_played"`
	Events        int `json:"events"`
	RepeatRuns    int `json:"repeat_runs"`
	Continuations int `json:"continuations"`
	Jumps         int `json:"jumps"`
	Breaks        int `json:"breaks"`
}
