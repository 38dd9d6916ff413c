package converter

import (
	"fmt"

	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/mus"
)

// SampleInfo summarises one sample slot
type SampleInfo struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Size      uint32 `json:"size"`
	LoopStart uint32 `json:"loop_start"`
	Volume    uint8  `json:"volume"`
	Finetune  uint8  `json:"finetune"`
}

// Info summarises a MOD or MUS file
type Info struct {
	Format     Format       `json:"format"`
	Title      string       `json:"title"`
	Channels   int          `json:"channels"`
	Orders     int          `json:"orders,omitempty"`
	Patterns   int          `json:"patterns,omitempty"`
	RestartPos int          `json:"restart_pos"`
	MusicSize  uint32       `json:"music_size,omitempty"`
	Samples    []SampleInfo `json:"samples"`
}

// Inspect reads the headers of a MOD or MUS file
func Inspect(data []byte) (*Info, error) {
	switch format := DetectFormatFromContent(data); format {
	case FormatMOD:
		return inspectMOD(data)
	case FormatMUS:
		return inspectMUS(data)
	default:
		return nil, fmt.Errorf("%w: cannot inspect %s data", ErrUnsupportedFormat, format)
	}
}

func inspectMOD(data []byte) (*Info, error) {
	h, err := mod.ReadHeader(data)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Format:     FormatMOD,
		Title:      h.Title(),
		Channels:   h.NumChannels(),
		Orders:     int(h.NumOrders),
		Patterns:   h.NumPatterns(),
		RestartPos: int(h.RestartPos),
	}
	for i := range h.Samples {
		s := &h.Samples[i]
		if skipSample(s) {
			continue
		}
		info.Samples = append(info.Samples, SampleInfo{
			Slot:      i + 1,
			Name:      s.Title(),
			Size:      uint32(s.ByteLength()),
			LoopStart: uint32(s.LoopStart) * 2,
			Volume:    s.Volume,
			Finetune:  s.Finetune,
		})
	}
	return info, nil
}

func inspectMUS(data []byte) (*Info, error) {
	f, err := mus.Parse(data)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Format:     FormatMUS,
		Title:      mus.Title(f.Song.Name),
		Channels:   int(f.Song.NumChannels),
		RestartPos: int(f.Song.RestartPos),
		MusicSize:  f.Song.MusicSize,
	}
	// SMPL chunks are written in slot order with empty slots left out;
	// the song's reference table tells which slots they belong to.
	chunk := 0
	for i, ref := range f.Song.Samples {
		if ref.Name[0] == 0 || chunk >= len(f.Samples) {
			continue
		}
		s := f.Samples[chunk]
		chunk++
		info.Samples = append(info.Samples, SampleInfo{
			Slot:      i + 1,
			Name:      mus.Title(s.Header.Name),
			Size:      s.Header.SampleSize,
			LoopStart: s.Header.LoopStart,
			Volume:    ref.Volume,
			Finetune:  ref.Finetune,
		})
	}
	return info, nil
}
