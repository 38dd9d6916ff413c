package converter

import (
	"fmt"

	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/mus"
)

const maxVolume = 64

// SampleChunk is one SMPL chunk ready to be written
type SampleChunk struct {
	Slot   int
	Header *mus.SampleHeader
	Data   []byte
}

// skipSample reports whether a slot is too short to be converted
func skipSample(s *mod.SampleHeader) bool {
	return s.Length < 2
}

// blankControls replaces control characters 1-31 with spaces
func blankControls(b []byte) {
	for i, c := range b {
		if c > 0x00 && c < 0x20 {
			b[i] = ' '
		}
	}
}

// SampleName builds the MUS name of a sample slot: the two-digit slot
// number, a colon and the MOD sample name
func SampleName(slot int, s *mod.SampleHeader) [mus.NameSize]byte {
	name := []byte(s.Title())
	blankControls(name)

	var out [mus.NameSize]byte
	copy(out[:], fmt.Sprintf("%02d:%s", slot, name))
	return out
}

// SongName copies the MOD song name into a MUS name field. The second
// return value is false when the name is empty.
func SongName(h *mod.Header) ([mus.NameSize]byte, bool) {
	var out [mus.NameSize]byte
	n := copy(out[:], h.Title())
	blankControls(out[:n])
	return out, n > 0
}

// SampleLoop derives the MUS loop start and sample size, in bytes. A
// sample without a usable loop gets its loop start at the end of the
// sample.
func SampleLoop(s *mod.SampleHeader) (loopStart, size uint32) {
	if s.LoopLength > 1 && s.LoopStart < s.Length {
		loopStart = uint32(s.LoopStart) * 2
		return loopStart, loopStart + uint32(s.LoopLength)*2
	}
	size = uint32(s.Length) * 2
	return size, size
}

// SampleReferences fills the song header's sample table
func SampleReferences(h *mod.Header, song *mus.SongHeader) {
	for i := range h.Samples {
		src := &h.Samples[i]
		if skipSample(src) {
			continue
		}
		ref := &song.Samples[i]
		ref.Name = SampleName(i+1, src)
		ref.Finetune = src.Finetune & 0x0F
		ref.Volume = min(src.Volume, maxVolume)
	}
}

// BuildSamples slices the sample data that follows the patterns into
// SMPL chunks. Skipped slots still advance the source offset by their
// declared length. Data missing from a truncated file reads as zeros.
func BuildSamples(h *mod.Header, data []byte) []SampleChunk {
	var chunks []SampleChunk
	offset := h.SampleDataOffset()

	for i := range h.Samples {
		src := &h.Samples[i]
		start := offset
		offset += src.ByteLength()

		if skipSample(src) {
			continue
		}

		hdr := mus.NewSampleHeader()
		hdr.Name = SampleName(i+1, src)
		hdr.LoopStart, hdr.SampleSize = SampleLoop(src)

		buf := make([]byte, hdr.SampleSize)
		if start < len(data) {
			copy(buf, data[start:])
		}

		chunks = append(chunks, SampleChunk{Slot: i + 1, Header: hdr, Data: buf})
	}
	return chunks
}
