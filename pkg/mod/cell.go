package mod

// NoPeriod is the 12-bit period value that some trackers store for an empty note
const NoPeriod = 0xFFF

// Cell is one channel's decoded note/effect record for one row
type Cell struct {
	Period uint16 // 12-bit pitch period, 0 or NoPeriod when empty
	Sample uint8  // sample number 0-31, 0 when empty
	Effect uint8  // effect command nibble
	Param  uint8  // effect parameter
}

// DecodeCell unpacks a 4-byte pattern cell:
//
//	byte 0: sample high bit (0x10), period bits 8-11
//	byte 1: period bits 0-7
//	byte 2: sample low nibble, effect command
//	byte 3: effect parameter
func DecodeCell(b []byte) Cell {
	return Cell{
		Period: uint16(b[0]&0x0F)<<8 | uint16(b[1]),
		Sample: b[2]>>4 | b[0]&0x10,
		Effect: b[2] & 0x0F,
		Param:  b[3],
	}
}

// Encode packs the cell back into its 4-byte form
func (c Cell) Encode() [4]byte {
	return [4]byte{
		c.Sample&0x10 | uint8(c.Period>>8)&0x0F,
		uint8(c.Period),
		c.Sample<<4 | c.Effect&0x0F,
		c.Param,
	}
}

// CellAt decodes the cell for (pattern, row, channel). Cells lying past
// the end of data decode as empty.
func (h *Header) CellAt(data []byte, pattern, row, channel int) Cell {
	off := h.PatternOffset(pattern) + (row*h.NumChannels()+channel)*BytesPerCell
	if off < 0 || off+BytesPerCell > len(data) {
		return Cell{}
	}
	return DecodeCell(data[off : off+BytesPerCell])
}
