package group

import "math"

// Tag is one bit of the group selector tag set described in spec.md §4.3.
type Tag int

const (
	Active Tag = iota
	Inactive
	Full
	Neutral
	Molecular
	Atomic
)

func (t Tag) holds(g *Group) bool {
	switch t {
	case Active:
		return !g.Empty()
	case Inactive:
		return g.Empty()
	case Full:
		return g.Full()
	case Neutral:
		return math.Abs(g.Charge()) < ChargeEpsilon
	case Molecular:
		return g.Meta.Molecular
	case Atomic:
		return !g.Meta.Molecular
	default:
		return false
	}
}

// Filter returns a predicate accepting a group iff every tag in tags holds.
func Filter(tags ...Tag) func(*Group) bool {
	return func(g *Group) bool {
		for _, t := range tags {
			if !t.holds(g) {
				return false
			}
		}
		return true
	}
}
