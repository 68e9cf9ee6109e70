// Package counter assigns cyclic strand numbers to detected crossings.
//
// Frames are processed in pairs, so stepping backward has to unwind two
// steps worth of increments before counting the current frame again.
package counter

// Direction is the navigation direction of a step.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction as its name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// State is the counter value carried between steps.
type State struct {
	// Index is the strand number of the last emitted marker, in [1, N].
	Index int `json:"index"`

	// LastPeakCount is the number of peaks in the most recent step.
	LastPeakCount int `json:"last_peak_count"`
}

// Marker labels one crossing with its strand number.
type Marker struct {
	Position  int       `json:"position"`
	Strand    int       `json:"strand"`
	Direction Direction `json:"direction"`
}

// Counter numbers crossings 1..Strands, wrapping around.
type Counter struct {
	Strands int
}

// Initial returns the starting state. The index sits on N so that the first
// crossing counted is strand 1.
func (c Counter) Initial() State {
	return State{Index: c.Strands, LastPeakCount: 0}
}

// Advance numbers the peaks of one step and returns the markers and the next
// state. Peaks must be in increasing order. The input state is not modified.
//
// Moving backward first steps the index back over both the step being left
// and the step being re-entered, then counts the re-entered step forward again.
func (c Counter) Advance(peaks []int, dir Direction, st State) ([]Marker, State) {
	idx := st.Index
	if dir == Backward {
		for i := 0; i < st.LastPeakCount+len(peaks); i++ {
			idx = c.prev(idx)
		}
	}

	markers := make([]Marker, 0, len(peaks))
	for _, p := range peaks {
		idx = c.next(idx)
		markers = append(markers, Marker{Position: p, Strand: idx, Direction: dir})
	}

	return markers, State{Index: idx, LastPeakCount: len(peaks)}
}

func (c Counter) next(idx int) int {
	if idx >= c.Strands {
		return 1
	}
	return idx + 1
}

func (c Counter) prev(idx int) int {
	if idx <= 1 {
		return c.Strands
	}
	return idx - 1
}
