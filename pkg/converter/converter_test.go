package converter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/mus"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"song.mod", FormatMOD},
		{"SONG.MOD", FormatMOD},
		{"song.mus", FormatMUS},
		{"song.mid", FormatMIDI},
		{"song.midi", FormatMIDI},
		{"song.xm", FormatUnknown},
		{"song", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	modData := newTestMOD("3CHN").bytes(t)
	badMod := newTestMOD("8CHN").bytes(t)
	songTitled := newTestMOD("M.K.")
	copy(songTitled.header.Name[:], "SONG of the sea")
	midiTitled := newTestMOD("1CHN")
	copy(midiTitled.header.Name[:], "MThd")

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MOD file", modData, FormatMOD},
		{"unsupported MOD", badMod, FormatUnknown},
		{"MOD titled SONG", songTitled.bytes(t), FormatMOD},
		{"MOD titled MThd", midiTitled.bytes(t), FormatMOD},
		{"MUS file", []byte("SONG\x00\x00\x00\x00"), FormatMUS},
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"Short data", []byte{0x00, 0x01}, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestModToMus(t *testing.T) {
	m := newTestMOD("1CHN")
	m.set(0, 0, 0, volumeC2)
	m.set(0, 1, 0, breakCell)
	m.sample(1, "lead", []byte{1, 2, 3, 4})

	res, err := New().ModToMus(m.bytes(t))
	if err != nil {
		t.Fatalf("ModToMus() error = %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}

	f, err := mus.Parse(res.Data)
	if err != nil {
		t.Fatalf("mus.Parse() error = %v", err)
	}
	if !bytes.Equal(f.Music, []byte{13, 1, 0x00, 0x20}) {
		t.Errorf("music = % X, want 0D 01 00 20", f.Music)
	}
	if f.Song.MusicSize != uint32(len(f.Music)) || res.MusicSize != f.Song.MusicSize {
		t.Errorf("music size field = %d, result = %d, stream = %d", f.Song.MusicSize, res.MusicSize, len(f.Music))
	}
	if f.Song.ChunkSize != mus.SongHeaderSize+4 {
		t.Errorf("song chunk size = %d, want %d", f.Song.ChunkSize, mus.SongHeaderSize+4)
	}
	if f.Song.NumChannels != 1 {
		t.Errorf("channels = %d, want 1", f.Song.NumChannels)
	}
	if mus.Title(f.Song.Name) != "test song" {
		t.Errorf("song name = %q, want %q", mus.Title(f.Song.Name), "test song")
	}
	if mus.Title(f.Song.Samples[0].Name) != "01:lead" || f.Song.Samples[0].Volume != 64 {
		t.Errorf("sample reference = %+v", f.Song.Samples[0])
	}
	if len(f.Samples) != 1 || !bytes.Equal(f.Samples[0].Data, []byte{1, 2, 3, 4}) {
		t.Errorf("samples = %+v, want one chunk with 01 02 03 04", f.Samples)
	}
	if res.Samples != 1 || res.Stats.Events != 1 {
		t.Errorf("result = %+v, want 1 sample and 1 event", res)
	}
}

func TestModToMusEmptyNameWarns(t *testing.T) {
	m := newTestMOD("M.K.")
	m.header.Name = [20]byte{}

	res, err := New().ModToMus(m.bytes(t))
	if err != nil {
		t.Fatalf("ModToMus() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "song name is empty" {
		t.Errorf("Warnings = %v, want [song name is empty]", res.Warnings)
	}
}

func TestModToMusValidation(t *testing.T) {
	bad := newTestMOD("6CHN")
	many := newTestMOD("M.K.")
	many.header.NumOrders = 200

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"signature", bad.bytes(t), mod.ErrUnknownSignature},
		{"order count", many.bytes(t), mod.ErrTooManyOrders},
		{"truncated", []byte("short"), mod.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().ModToMus(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ModToMus() error = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("ModToMus() result = %+v, want nil", res)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.mod")
	out := filepath.Join(dir, "song.mus")

	m := newTestMOD("2CHN")
	m.set(0, 0, 1, volumeC2)
	if err := os.WriteFile(in, m.bytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := New().ConvertFile(in, out)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(written, res.Data) {
		t.Error("output file does not match result data")
	}
}

func TestConvertFileAlwaysWritesMus(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.mod")
	out := filepath.Join(dir, "song.mid")
	if err := os.WriteFile(in, newTestMOD("1CHN").bytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New().ConvertFile(in, out); err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if got := DetectFormatFromContent(written); got != FormatMUS {
		t.Errorf("ConvertFile(%q) wrote %v, want %v", out, got, FormatMUS)
	}
}

func TestPreviewFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.mod")
	out := filepath.Join(dir, "song.mid")
	if err := os.WriteFile(in, newTestMOD("1CHN").bytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New().PreviewFile(in, out); err != nil {
		t.Fatalf("PreviewFile() error = %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if got := DetectFormatFromContent(written); got != FormatMIDI {
		t.Errorf("PreviewFile() wrote %v, want %v", got, FormatMIDI)
	}

	if err := New().PreviewFile(filepath.Join(dir, "nope.mod"), out); !errors.Is(err, ErrOpenInput) {
		t.Errorf("PreviewFile(missing) error = %v, want %v", err, ErrOpenInput)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.mod")
	if err := os.WriteFile(in, newTestMOD("1CHN").bytes(t), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.mod")
	if err := os.WriteFile(bad, newTestMOD("XXXX").bytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		input  string
		output string
		want   error
	}{
		{"missing input", filepath.Join(dir, "nope.mod"), filepath.Join(dir, "a.mus"), ErrOpenInput},
		{"output directory missing", in, filepath.Join(dir, "no", "such", "dir.mus"), ErrCreateOutput},
		{"bad signature", bad, filepath.Join(dir, "b.mus"), mod.ErrUnknownSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ConvertFile(tt.input, tt.output)
			if !errors.Is(err, tt.want) {
				t.Errorf("ConvertFile() error = %v, want %v", err, tt.want)
			}
			if _, statErr := os.Stat(tt.output); statErr == nil {
				t.Errorf("output %s written despite error", tt.output)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	m := newTestMOD("M.K.")
	m.sample(3, "bass", []byte{1, 2, 3, 4, 5, 6})
	m.orders(0, 2, 1)
	m.header.RestartPos = 1
	modData := m.bytes(t)

	info, err := Inspect(modData)
	if err != nil {
		t.Fatalf("Inspect(mod) error = %v", err)
	}
	if info.Format != FormatMOD || info.Channels != 4 || info.Orders != 3 || info.Patterns != 3 {
		t.Errorf("Inspect(mod) = %+v", info)
	}
	if len(info.Samples) != 1 || info.Samples[0].Slot != 3 || info.Samples[0].Size != 6 {
		t.Errorf("Inspect(mod) samples = %+v", info.Samples)
	}

	res, err := New().ModToMus(modData)
	if err != nil {
		t.Fatal(err)
	}
	info, err = Inspect(res.Data)
	if err != nil {
		t.Fatalf("Inspect(mus) error = %v", err)
	}
	if info.Format != FormatMUS || info.Channels != 4 || info.MusicSize != res.MusicSize {
		t.Errorf("Inspect(mus) = %+v", info)
	}
	if len(info.Samples) != 1 || info.Samples[0].Slot != 3 || info.Samples[0].Name != "03:bass" {
		t.Errorf("Inspect(mus) samples = %+v", info.Samples)
	}

	titled := newTestMOD("M.K.")
	copy(titled.header.Name[:], "SONG of the sea")
	info, err = Inspect(titled.bytes(t))
	if err != nil {
		t.Fatalf("Inspect(mod titled SONG) error = %v", err)
	}
	if info.Format != FormatMOD || info.Title != "SONG of the sea" {
		t.Errorf("Inspect(mod titled SONG) = %+v", info)
	}

	if _, err := Inspect([]byte("nothing")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Inspect(unknown) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestGetSupportedConversions(t *testing.T) {
	conversions := GetSupportedConversions()
	expected := []string{"mod -> mus", "mod -> midi"}

	if len(conversions) != len(expected) {
		t.Fatalf("GetSupportedConversions() returned %d conversions, want %d", len(conversions), len(expected))
	}
	for i, exp := range expected {
		if conversions[i] != exp {
			t.Errorf("conversions[%d] = %q, want %q", i, conversions[i], exp)
		}
	}
}
