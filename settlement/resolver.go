package settlement

import (
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

// Outcome is the resolver's verdict on one bet.
type Outcome int

const (
	// OutcomeDeferred means the race has no recorded finishers yet;
	// resolution is retried on a later cycle.
	OutcomeDeferred Outcome = iota
	// OutcomeUnresolvable means the bet cannot be settled as written
	// (unknown bet type or no usable horse numbers). The bet stays
	// pending; new bet-type strings appear upstream before this table
	// learns them.
	OutcomeUnresolvable
	OutcomeWon
	OutcomeLost
)

// Won reports whether the outcome is a win. Deferred and unresolvable
// outcomes are "not won".
func (o Outcome) Won() bool { return o == OutcomeWon }

// Resolver decides won/lost for a bet from the race's finish order.
// It is a pure function of (bet type, selection, horses with arrival order);
// all dependencies are injected, no ambient state.
type Resolver struct {
	log *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve settles one bet against the given race participants.
func (r *Resolver) Resolve(betType, selectionText string, horses []models.Horse) Outcome {
	selection := ParseSelection(selectionText)
	if len(selection) == 0 {
		r.log.Warn("bet selection has no usable horse numbers",
			zap.String("selection", selectionText))
		return OutcomeUnresolvable
	}

	arrival := map[int]int{}
	for _, h := range horses {
		if h.ArrivalOrder != nil && *h.ArrivalOrder > 0 {
			arrival[h.Number] = *h.ArrivalOrder
		}
	}
	if len(arrival) == 0 {
		return OutcomeDeferred
	}

	fam, ok := FamilyFor(betType)
	if !ok {
		r.log.Warn("unknown bet type", zap.String("bet_type", betType))
		return OutcomeUnresolvable
	}
	if fam.Picks > 0 && len(selection) != fam.Picks {
		return OutcomeLost
	}

	if won(fam, selection, arrival) {
		return OutcomeWon
	}
	return OutcomeLost
}

func won(fam Family, selection []int, arrival map[int]int) bool {
	switch fam.Rule {
	case ruleWin:
		return arrival[selection[0]] == 1
	case rulePlace:
		return inTop(arrival, selection[0], 3)
	case ruleWinOrPlace:
		// Both branches checked independently: a single selection
		// satisfies either one.
		return arrival[selection[0]] == 1 || inTop(arrival, selection[0], 3)
	case ruleSetTop:
		return allDistinctInTop(selection, arrival, fam.Picks)
	case ruleAllInTop:
		return allDistinctInTop(selection, arrival, fam.Top)
	case ruleCoverTop:
		return coversTop(selection, arrival, fam.Top)
	case ruleExactOrder:
		for i, n := range selection {
			if arrival[n] != i+1 {
				return false
			}
		}
		return true
	}
	return false
}

func inTop(arrival map[int]int, number, top int) bool {
	o, ok := arrival[number]
	return ok && o <= top
}

// allDistinctInTop reports whether every selected number is a distinct
// finisher within the top positions.
func allDistinctInTop(selection []int, arrival map[int]int, top int) bool {
	seen := map[int]bool{}
	for _, n := range selection {
		if seen[n] || !inTop(arrival, n, top) {
			return false
		}
		seen[n] = true
	}
	return true
}

// coversTop reports whether every one of the first top finishers is among
// the selection. All top positions must actually be recorded; a partial
// arrival cannot win a multi.
func coversTop(selection []int, arrival map[int]int, top int) bool {
	selected := map[int]bool{}
	for _, n := range selection {
		selected[n] = true
	}
	covered := 0
	for number, order := range arrival {
		if order <= top {
			if !selected[number] {
				return false
			}
			covered++
		}
	}
	return covered == top
}
