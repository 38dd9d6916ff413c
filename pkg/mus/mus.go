// Package mus describes the chunked MUS song container used by
// Psycho Pinball and Micro Machines 2. All fields are little-endian.
package mus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Chunk identifiers
const (
	SongID   = "SONG"
	SampleID = "SMPL"
)

// Record sizes in bytes
const (
	NameSize            = 32
	NumSamples          = 31
	SampleReferenceSize = NameSize + 2
	SongHeaderSize      = 4 + 4 + NameSize + NumSamples*SampleReferenceSize + 2 + 4 + 4 + 4
	SampleHeaderSize    = 4 + 4 + NameSize + 4 + 4
)

// ErrBadChunk is returned when a chunk does not carry the expected identifier
var ErrBadChunk = errors.New("unexpected chunk identifier")

// SampleReference describes one sample slot inside the song header
type SampleReference struct {
	Name     [NameSize]byte
	Finetune uint8
	Volume   uint8
}

// SongHeader is the SONG chunk header. The compressed event stream
// follows it directly.
type SongHeader struct {
	ID          [4]byte
	ChunkSize   uint32 // including this header
	Name        [NameSize]byte
	Samples     [NumSamples]SampleReference
	Unknown     uint16 // always 0
	NumChannels uint32
	RestartPos  uint32 // byte offset into the event stream
	MusicSize   uint32
}

// SampleHeader is the SMPL chunk header. Raw sample data follows it.
type SampleHeader struct {
	ID         [4]byte
	ChunkSize  uint32 // including this header
	Name       [NameSize]byte
	LoopStart  uint32
	SampleSize uint32
}

// NewSongHeader returns a SONG header with its identifier set
func NewSongHeader() *SongHeader {
	h := &SongHeader{}
	copy(h.ID[:], SongID)
	return h
}

// NewSampleHeader returns a SMPL header with its identifier set
func NewSampleHeader() *SampleHeader {
	h := &SampleHeader{}
	copy(h.ID[:], SampleID)
	return h
}

// WriteSong writes the SONG chunk: header followed by the event stream.
// ChunkSize and MusicSize are derived from music.
func WriteSong(w io.Writer, h *SongHeader, music []byte) error {
	h.MusicSize = uint32(len(music))
	h.ChunkSize = uint32(SongHeaderSize + len(music))
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to write song header: %w", err)
	}
	if _, err := w.Write(music); err != nil {
		return fmt.Errorf("failed to write music data: %w", err)
	}
	return nil
}

// WriteSample writes one SMPL chunk: header followed by the sample bytes.
// ChunkSize is derived from SampleSize.
func WriteSample(w io.Writer, h *SampleHeader, data []byte) error {
	h.ChunkSize = uint32(SampleHeaderSize) + h.SampleSize
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to write sample header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write sample data: %w", err)
	}
	return nil
}

// File is a parsed MUS file, used for inspection
type File struct {
	Song    SongHeader
	Music   []byte
	Samples []Sample
}

// Sample is one parsed SMPL chunk
type Sample struct {
	Header SampleHeader
	Data   []byte
}

// Parse reads a complete MUS file
func Parse(data []byte) (*File, error) {
	r := bytes.NewReader(data)
	f := &File{}

	if err := binary.Read(r, binary.LittleEndian, &f.Song); err != nil {
		return nil, fmt.Errorf("failed to read song header: %w", err)
	}
	if string(f.Song.ID[:]) != SongID {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrBadChunk, f.Song.ID[:], SongID)
	}
	f.Music = make([]byte, f.Song.MusicSize)
	if _, err := io.ReadFull(r, f.Music); err != nil {
		return nil, fmt.Errorf("failed to read music data: %w", err)
	}

	for r.Len() > 0 {
		var s Sample
		if err := binary.Read(r, binary.LittleEndian, &s.Header); err != nil {
			return nil, fmt.Errorf("failed to read sample header %d: %w", len(f.Samples), err)
		}
		if string(s.Header.ID[:]) != SampleID {
			return nil, fmt.Errorf("%w: got %q, want %q", ErrBadChunk, s.Header.ID[:], SampleID)
		}
		s.Data = make([]byte, s.Header.SampleSize)
		if _, err := io.ReadFull(r, s.Data); err != nil {
			return nil, fmt.Errorf("failed to read sample data %d: %w", len(f.Samples), err)
		}
		f.Samples = append(f.Samples, s)
	}
	return f, nil
}

// Title returns a NUL-terminated name field as a string
func Title(name [NameSize]byte) string {
	if i := bytes.IndexByte(name[:], 0); i >= 0 {
		return string(name[:i])
	}
	return string(name[:])
}
