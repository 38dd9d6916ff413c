package converter

import (
	"testing"

	"github.com/james-see/mod2mus/pkg/mod"
)

// testMOD assembles MOD files for tests
type testMOD struct {
	header   mod.Header
	patterns [][]byte
	samples  [][]byte
}

func newTestMOD(magic string) *testMOD {
	m := &testMOD{}
	copy(m.header.Magic[:], magic)
	copy(m.header.Name[:], "test song")
	m.header.NumOrders = 1
	return m
}

func (m *testMOD) channels() int {
	return m.header.NumChannels()
}

// set stores a cell, growing the pattern list as needed
func (m *testMOD) set(pattern, row, channel int, c mod.Cell) {
	for len(m.patterns) <= pattern {
		m.patterns = append(m.patterns, make([]byte, mod.PatternSize(m.channels())))
	}
	off := (row*m.channels() + channel) * mod.BytesPerCell
	enc := c.Encode()
	copy(m.patterns[pattern][off:], enc[:])
}

// orders sets the order list and order count
func (m *testMOD) orders(list ...uint8) {
	m.header.NumOrders = uint8(len(list))
	copy(m.header.OrderList[:], list)
}

// sample declares a sample slot (1-based) and its data
func (m *testMOD) sample(slot int, name string, data []byte) *mod.SampleHeader {
	for len(m.samples) < slot {
		m.samples = append(m.samples, nil)
	}
	m.samples[slot-1] = data
	s := &m.header.Samples[slot-1]
	copy(s.Name[:], name)
	s.Length = uint16(len(data) / 2)
	s.Volume = 64
	return s
}

func (m *testMOD) bytes(t *testing.T) []byte {
	t.Helper()
	data, err := m.header.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	for len(m.patterns) < m.header.NumPatterns() {
		m.patterns = append(m.patterns, make([]byte, mod.PatternSize(m.channels())))
	}
	for _, p := range m.patterns[:m.header.NumPatterns()] {
		data = append(data, p...)
	}
	for _, s := range m.samples {
		data = append(data, s...)
	}
	return data
}
