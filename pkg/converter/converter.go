package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/mus"
)

var (
	// ErrOpenInput wraps failures to read the input file
	ErrOpenInput = errors.New("cannot open input file")
	// ErrCreateOutput wraps failures to write the output file
	ErrCreateOutput = errors.New("cannot open output file")
	// ErrUnsupportedFormat is returned for data that is neither MOD nor MUS
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Format represents a file format
type Format string

const (
	FormatMOD     Format = "mod"
	FormatMUS     Format = "mus"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mod":
		return FormatMOD
	case ".mus":
		return FormatMUS
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// A MOD starts with its free-form title, so its signature is
	// checked before any leading magic.
	if len(data) >= mod.HeaderSize {
		h := mod.Header{}
		copy(h.Magic[:], data[mod.SignatureOffset:])
		if h.NumChannels() > 0 {
			return FormatMOD
		}
	}

	switch string(data[:4]) {
	case mus.SongID:
		return FormatMUS
	case "MThd":
		return FormatMIDI
	}
	return FormatUnknown
}

// Result holds the outcome of a MOD to MUS conversion
type Result struct {
	Data          []byte   `json:"-"`
	Title         string   `json:"title"`
	Channels      int      `json:"channels"`
	Patterns      int      `json:"patterns"`
	RestartOffset uint32   `json:"restart_offset"`
	MusicSize     uint32   `json:"music_size"`
	Samples       int      `json:"samples"`
	Stats         Stats    `json:"stats"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Converter handles format conversions
type Converter struct {
	midi *MIDIConverter
}

// New creates a new Converter
func New() *Converter {
	return &Converter{midi: NewMIDIConverter()}
}

// ModToMus converts a complete MOD file to MUS. Validation happens
// before anything is encoded, so an error means no output at all.
func (c *Converter) ModToMus(data []byte) (*Result, error) {
	header, err := mod.ReadHeader(data)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Title:    header.Title(),
		Channels: header.NumChannels(),
		Patterns: header.NumPatterns(),
	}

	song := mus.NewSongHeader()
	var ok bool
	if song.Name, ok = SongName(header); !ok {
		res.Warnings = append(res.Warnings, "song name is empty")
	}
	SampleReferences(header, song)
	song.NumChannels = uint32(header.NumChannels())

	seq := NewSequencer(header, data)
	seq.Run()
	song.RestartPos = seq.RestartOffset()

	var buf bytes.Buffer
	if err := mus.WriteSong(&buf, song, seq.Music()); err != nil {
		return nil, err
	}
	samples := BuildSamples(header, data)
	for _, smp := range samples {
		if err := mus.WriteSample(&buf, smp.Header, smp.Data); err != nil {
			return nil, fmt.Errorf("sample %d: %w", smp.Slot, err)
		}
	}

	res.Data = buf.Bytes()
	res.RestartOffset = song.RestartPos
	res.MusicSize = song.MusicSize
	res.Samples = len(samples)
	res.Stats = seq.Stats()
	return res, nil
}

// ModToMIDI renders a MOD file's note events as a Standard MIDI File
func (c *Converter) ModToMIDI(data []byte) ([]byte, error) {
	header, err := mod.ReadHeader(data)
	if err != nil {
		return nil, err
	}
	return c.midi.Preview(header, data)
}

// ConvertFile converts a MOD file to MUS whatever the output name. The
// output file is only created once the conversion has succeeded.
func (c *Converter) ConvertFile(inputPath, outputPath string) (*Result, error) {
	data, err := readInput(inputPath)
	if err != nil {
		return nil, err
	}

	res, err := c.ModToMus(data)
	if err != nil {
		return nil, err
	}
	if err := writeOutput(outputPath, res.Data); err != nil {
		return nil, err
	}
	return res, nil
}

// PreviewFile renders a MOD file as a MIDI preview at outputPath
func (c *Converter) PreviewFile(inputPath, outputPath string) error {
	data, err := readInput(inputPath)
	if err != nil {
		return err
	}

	out, err := c.ModToMIDI(data)
	if err != nil {
		return err
	}
	return writeOutput(outputPath, out)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenInput, err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}
	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"mod -> mus",
		"mod -> midi",
	}
}
