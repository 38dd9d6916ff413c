package converter

import "github.com/james-see/mod2mus/pkg/mod"

// PeriodTable holds the ProTracker periods of three octaves, C-1 to B-3,
// finetune 0
var PeriodTable = [36]uint16{
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
}

// NoteForPeriod maps a period to the note whose table period is nearest.
// The lower note wins only when it is strictly closer; equal distance
// resolves to the higher note. Periods above the table map to note 1,
// periods below it to NoNote.
func NoteForPeriod(period uint16) Note {
	if period == 0 || period == mod.NoPeriod {
		return NoNote
	}
	for i, p := range PeriodTable {
		if period < p {
			continue
		}
		if period != p && i != 0 {
			prev := PeriodTable[i-1]
			if int(prev)-int(period) < int(period)-int(p) {
				return Note(i)
			}
		}
		return Note(i + 1)
	}
	return NoNote
}
