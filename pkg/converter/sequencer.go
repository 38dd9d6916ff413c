package converter

import "github.com/james-see/mod2mus/pkg/mod"

// Stream encoding constants
const (
	repeatBase       = 0x80 // count byte value for a single repeat
	repeatMax        = 0xFF
	continuationFlag = 0x80
	unusedValue      = 0xFF // initial channel state, never a valid field value
)

// channelState is what the sequencer last emitted on one channel
type channelState struct {
	last         Event
	repeatOffset int // offset of the open repeat count byte, -1 if none
}

func newChannelState() channelState {
	return channelState{
		last: Event{
			Note:       unusedValue,
			Instrument: unusedValue,
			Command:    unusedValue,
			Param:      unusedValue,
		},
		repeatOffset: -1,
	}
}

// EventObserver receives every translated event in playback order,
// before compression
type EventObserver func(pos Position, ev Event)

// Sequencer walks a MOD's order list and builds the compressed MUS
// event stream
type Sequencer struct {
	header   *mod.Header
	data     []byte
	channels []channelState
	music    []byte
	restart  uint32
	stats    Stats
	observer EventObserver
	step     int
}

// NewSequencer creates a sequencer over a validated header and the
// complete MOD file it was read from
func NewSequencer(header *mod.Header, data []byte) *Sequencer {
	s := &Sequencer{
		header:   header,
		data:     data,
		channels: make([]channelState, header.NumChannels()),
	}
	for i := range s.channels {
		s.channels[i] = newChannelState()
	}
	return s
}

// OnEvent registers an observer for translated events
func (s *Sequencer) OnEvent(fn EventObserver) {
	s.observer = fn
}

// Run sequences the whole song. It may only be called once.
func (s *Sequencer) Run() {
	numOrders := int(s.header.NumOrders)
	restartPos := int(s.header.RestartPos)
	startRow := 0

	for ord := 0; ord < numOrders; {
		if ord == restartPos {
			s.restart = uint32(len(s.music))
		}
		s.stats.OrdersPlayed++

		tr := s.playPattern(ord, startRow)
		startRow = 0

		switch tr.Control {
		case ControlJump:
			s.stats.Jumps++
			// Backward jumps would loop forever; they fall through to the next order.
			if tr.Target > ord {
				ord = tr.Target
				continue
			}
		case ControlBreak:
			s.stats.Breaks++
			startRow = tr.Target
		}
		ord++
	}
}

// playPattern emits the rows of one order from startRow on. It stops at
// the first cell carrying a control signal and returns that signal;
// the remaining channels of that row are not processed.
func (s *Sequencer) playPattern(ord, startRow int) Translation {
	pattern := int(s.header.OrderList[ord])

	for row := startRow; row < mod.RowsPerPattern; row++ {
		for ch := range s.channels {
			cell := s.header.CellAt(s.data, pattern, row, ch)

			tr := TranslateEffect(cell.Effect, cell.Param)
			if tr.Control != ControlNone {
				s.step++
				return tr
			}

			ev := Event{
				Note:       NoteForPeriod(cell.Period),
				Instrument: Instrument(cell.Sample),
				Command:    tr.Command,
				Param:      tr.Param,
			}
			if s.observer != nil {
				s.observer(Position{Order: ord, Pattern: pattern, Row: row, Channel: ch, Step: s.step}, ev)
			}
			s.push(ch, ev)
		}
		s.step++
	}
	return Translation{}
}

// push appends ev for channel ch to the stream, compressing it against
// what the channel last emitted
func (s *Sequencer) push(ch int, ev Event) {
	st := &s.channels[ch]

	if ev == st.last {
		if st.repeatOffset >= 0 && s.music[st.repeatOffset] < repeatMax {
			s.music[st.repeatOffset]++
		} else {
			st.repeatOffset = len(s.music)
			s.music = append(s.music, repeatBase)
			s.stats.RepeatRuns++
		}
		return
	}
	st.repeatOffset = -1

	if ev.Command == st.last.Command && ev.Param == st.last.Param {
		if n := len(s.music); n > 0 {
			s.music[n-1] |= continuationFlag
		}
		s.stats.Continuations++
		return
	}

	b := ev.Bytes()
	s.music = append(s.music, b[:]...)
	st.last = ev
	s.stats.Events++
}

// Music returns the compressed event stream
func (s *Sequencer) Music() []byte {
	return s.music
}

// RestartOffset returns the stream offset at which the restart order began
func (s *Sequencer) RestartOffset() uint32 {
	return s.restart
}

// Stats returns counters collected while sequencing
func (s *Sequencer) Stats() Stats {
	return s.stats
}
