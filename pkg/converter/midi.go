package converter

import (
	"bytes"
	"fmt"

	"github.com/james-see/mod2mus/pkg/mod"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI preview defaults. ProTracker plays 6 ticks per row at 125 BPM,
// which is four rows per quarter note.
const (
	defaultSpeed    = 6
	defaultBPM      = 125
	defaultVelocity = 100
	baseMIDINote    = 47 // note 1 (C-1) sounds as MIDI C3
)

// MIDIConverter renders translated MOD events as a Standard MIDI File
type MIDIConverter struct {
	ticksPerQuarter uint16
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
	}
}

type timedMessage struct {
	tick uint32
	msg  smf.Message
}

// previewChannel tracks the sounding key and volume of one MOD channel
type previewChannel struct {
	key      uint8
	sounding bool
	velocity uint8
}

// rowTicks is the length of one row at the given speed
func (m *MIDIConverter) rowTicks(speed uint8) uint32 {
	return uint32(m.ticksPerQuarter) * uint32(speed) / (4 * defaultSpeed)
}

func tempoMessage(bpm float64) smf.Message {
	microsecondsPerBeat := uint32(60000000.0 / bpm)
	return smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
}

// Preview walks the song the same way the MUS sequencer does and turns
// every note into a note on/off pair, one MIDI channel per MOD channel.
// Fxx sets speed below 0x20 and tempo from 0x20 on; Cxx sets velocity.
func (m *MIDIConverter) Preview(header *mod.Header, data []byte) ([]byte, error) {
	channels := make([]previewChannel, header.NumChannels())
	for i := range channels {
		channels[i].velocity = defaultVelocity
	}

	var (
		events   []timedMessage
		tick     uint32
		lastStep int
		speed    uint8 = defaultSpeed
	)

	seq := NewSequencer(header, data)
	seq.OnEvent(func(pos Position, ev Event) {
		if pos.Step != lastStep {
			tick += uint32(pos.Step-lastStep) * m.rowTicks(speed)
			lastStep = pos.Step
		}
		ch := &channels[pos.Channel]
		midiCh := uint8(pos.Channel)

		switch ev.Command {
		case CmdSetSpeed:
			if ev.Param == 0 {
				break
			}
			if ev.Param < 0x20 {
				speed = ev.Param
			} else {
				events = append(events, timedMessage{tick, tempoMessage(float64(ev.Param))})
			}
		case CmdSetVolume:
			ch.velocity = uint8(uint32(min(ev.Param, 64)) * 127 / 64)
		}

		if ev.Note == NoNote {
			return
		}
		if ch.sounding {
			events = append(events, timedMessage{tick, smf.Message(midi.NoteOff(midiCh, ch.key))})
			ch.sounding = false
		}
		if ch.velocity == 0 {
			return
		}
		ch.key = baseMIDINote + uint8(ev.Note)
		ch.sounding = true
		events = append(events, timedMessage{tick, smf.Message(midi.NoteOn(midiCh, ch.key, ch.velocity))})
	})
	seq.Run()

	end := tick + m.rowTicks(speed)
	for i, ch := range channels {
		if ch.sounding {
			events = append(events, timedMessage{end, smf.Message(midi.NoteOff(uint8(i), ch.key))})
		}
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track
	track.Add(0, tempoMessage(defaultBPM))
	// 4/4
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	var current uint32
	for _, ev := range events {
		track.Add(ev.tick-current, ev.msg)
		current = ev.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}
