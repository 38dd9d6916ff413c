// Package mod describes the ProTracker MOD records consumed by mod2mus
package mod

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Layout constants of the supported MOD variant
const (
	HeaderSize      = 1084
	NumSamples      = 31
	MaxOrders       = 128
	RowsPerPattern  = 64
	BytesPerCell    = 4
	SignatureOffset = 1080
)

var (
	// ErrUnknownSignature is returned when the signature is not 1CHN, 2CHN, 3CHN or M.K.
	ErrUnknownSignature = errors.New("cannot identify input file (MOD signature is not 1CHN, 2CHN, 3CHN or M.K.)")
	// ErrTooManyOrders is returned when the header claims more than 128 orders
	ErrTooManyOrders = errors.New("input file is malformed (claims > 128 orders)")
	// ErrTruncated is returned when the input is shorter than a MOD header
	ErrTruncated = errors.New("input file is too short for a MOD header")
)

var signatures = [...]string{"1CHN", "2CHN", "3CHN", "M.K."}

// SampleHeader is one 30-byte sample descriptor. Lengths and loop
// values are in 16-bit words.
type SampleHeader struct {
	Name       [22]byte
	Length     uint16
	Finetune   uint8
	Volume     uint8
	LoopStart  uint16
	LoopLength uint16
}

// Header is the fixed 1084-byte MOD file header
type Header struct {
	Name       [20]byte
	Samples    [NumSamples]SampleHeader
	NumOrders  uint8
	RestartPos uint8
	OrderList  [MaxOrders]uint8
	Magic      [4]byte
}

// ReadHeader decodes and validates the header at the start of data
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncated, len(data), HeaderSize)
	}

	var h Header
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read MOD header: %w", err)
	}

	if h.NumChannels() == 0 {
		return nil, ErrUnknownSignature
	}
	if int(h.NumOrders) > MaxOrders {
		return nil, ErrTooManyOrders
	}
	return &h, nil
}

// NumChannels maps the signature to a channel count, 0 if unrecognised
func (h *Header) NumChannels() int {
	for i, sig := range signatures {
		if string(h.Magic[:]) == sig {
			return i + 1
		}
	}
	return 0
}

// Title returns the song name up to the first NUL
func (h *Header) Title() string {
	return cString(h.Name[:])
}

// NumPatterns is the highest pattern index below 128 named anywhere in
// the order list, plus one. All 128 entries count, not only the played ones.
func (h *Header) NumPatterns() int {
	n := 0
	for _, pat := range h.OrderList {
		if pat < MaxOrders && n <= int(pat) {
			n = int(pat) + 1
		}
	}
	return n
}

// PatternSize is the byte size of one pattern for the given channel count
func PatternSize(numChannels int) int {
	return numChannels * RowsPerPattern * BytesPerCell
}

// PatternOffset returns the file offset of a pattern
func (h *Header) PatternOffset(pattern int) int {
	return HeaderSize + PatternSize(h.NumChannels())*pattern
}

// SampleDataOffset returns the file offset of the first sample's data
func (h *Header) SampleDataOffset() int {
	return h.PatternOffset(h.NumPatterns())
}

// Title returns the sample name up to the first NUL
func (s *SampleHeader) Title() string {
	return cString(s.Name[:])
}

// ByteLength is the declared sample length in bytes
func (s *SampleHeader) ByteLength() int {
	return int(s.Length) * 2
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// MarshalBinary encodes the header in its on-disk big-endian layout
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	if err := binary.Write(&buf, binary.BigEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
