package game

// click is one recorded click event within a round.
type click struct {
	playerID   string
	playerName string
	timeMs     int
}

type roundState int

const (
	roundEmpty roundState = iota
	roundFirstRecorded
	roundResolved
)

// clickRecord merges the two racing click events of one round into an
// ordered pair. It cycles roundEmpty -> roundFirstRecorded ->
// roundResolved and is reset to roundEmpty after each resolution.
// Callers must hold the owning match's lock.
type clickRecord struct {
	state  roundState
	first  click
	second click
}

// record stores a click and reports whether it was accepted. A repeat
// click by the player already holding the first slot is ignored, as is
// any click while the record is resolved.
func (r *clickRecord) record(c click) bool {
	switch r.state {
	case roundEmpty:
		r.first = c
		r.state = roundFirstRecorded
		return true
	case roundFirstRecorded:
		if c.playerID == r.first.playerID {
			return false
		}
		r.second = c
		r.state = roundResolved
		return true
	default:
		return false
	}
}

func (r *clickRecord) resolved() bool {
	return r.state == roundResolved
}

// roundOutcome is the verdict for one resolved round.
type roundOutcome struct {
	winner click
	tie    bool
}

// outcome compares the two recorded reaction times. The strictly lower
// time wins; equal times are a tie and nobody scores.
func (r *clickRecord) outcome() roundOutcome {
	if r.first.timeMs < r.second.timeMs {
		return roundOutcome{winner: r.first}
	}
	if r.second.timeMs < r.first.timeMs {
		return roundOutcome{winner: r.second}
	}
	return roundOutcome{tie: true}
}

func (r *clickRecord) reset() {
	*r = clickRecord{}
}
