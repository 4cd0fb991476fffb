package settlement

import (
	"testing"

	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

func horse(number int, arrival int) models.Horse {
	h := models.Horse{Number: number}
	if arrival > 0 {
		h.ArrivalOrder = &arrival
	}
	return h
}

func TestResolve_Gagnant(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 1), horse(7, 2)}

	if got := r.Resolve("gagnant", "4", horses); got != OutcomeWon {
		t.Errorf("selection 4 = %v, want won", got)
	}
	if got := r.Resolve("gagnant", "7", horses); got != OutcomeLost {
		t.Errorf("selection 7 = %v, want lost", got)
	}
	// Machine code and human label map to the same family.
	if got := r.Resolve("SIMPLE_GAGNANT", "4", horses); got != OutcomeWon {
		t.Errorf("SIMPLE_GAGNANT alias = %v, want won", got)
	}
}

func TestResolve_Place(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 1), horse(7, 2), horse(2, 3), horse(9, 4)}

	if got := r.Resolve("place", "2", horses); got != OutcomeWon {
		t.Errorf("third place = %v, want won", got)
	}
	if got := r.Resolve("place", "9", horses); got != OutcomeLost {
		t.Errorf("fourth place = %v, want lost", got)
	}
}

func TestResolve_GagnantPlace_EitherBranch(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 1), horse(7, 2), horse(2, 3), horse(9, 4)}

	if got := r.Resolve("gagnant_place", "4", horses); got != OutcomeWon {
		t.Errorf("winner = %v, want won", got)
	}
	if got := r.Resolve("gagnant_place", "7", horses); got != OutcomeWon {
		t.Errorf("placed-only = %v, want won", got)
	}
	if got := r.Resolve("gagnant_place", "9", horses); got != OutcomeLost {
		t.Errorf("unplaced = %v, want lost", got)
	}
}

func TestResolve_Couple_Unordered(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(3, 1), horse(8, 2), horse(9, 3)}

	if got := r.Resolve("couple", "8,3", horses); got != OutcomeWon {
		t.Errorf("reversed pair = %v, want won", got)
	}
	if got := r.Resolve("couple", "3,9", horses); got != OutcomeLost {
		t.Errorf("wrong pair = %v, want lost", got)
	}
}

func TestResolve_CoupleOrdre(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(3, 1), horse(8, 2)}

	if got := r.Resolve("couple_ordre", "3,8", horses); got != OutcomeWon {
		t.Errorf("exact order = %v, want won", got)
	}
	if got := r.Resolve("couple_ordre", "8,3", horses); got != OutcomeLost {
		t.Errorf("reversed = %v, want lost", got)
	}
}

func TestResolve_Trio(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(2, 1), horse(5, 2), horse(9, 3), horse(1, 4)}

	if got := r.Resolve("trio", "5,9,2", horses); got != OutcomeWon {
		t.Errorf("any-order top3 = %v, want won", got)
	}
	if got := r.Resolve("trio", "5,9,1", horses); got != OutcomeLost {
		t.Errorf("one outside top3 = %v, want lost", got)
	}
	if got := r.Resolve("trio", "5,5,2", horses); got != OutcomeLost {
		t.Errorf("duplicate selection = %v, want lost", got)
	}
}

func TestResolve_DeuxSurQuatre(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(2, 1), horse(5, 2), horse(9, 3), horse(1, 4), horse(6, 5)}

	if got := r.Resolve("2sur4", "1,2", horses); got != OutcomeWon {
		t.Errorf("both in top4 = %v, want won", got)
	}
	if got := r.Resolve("2sur4", "2,6", horses); got != OutcomeLost {
		t.Errorf("one outside top4 = %v, want lost", got)
	}
}

func TestResolve_Multi_CoversTopFour(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(2, 1), horse(5, 2), horse(9, 3), horse(1, 4), horse(6, 5)}

	if got := r.Resolve("multi", "1,2,5,9,6", horses); got != OutcomeWon {
		t.Errorf("top4 covered by 5 picks = %v, want won", got)
	}
	if got := r.Resolve("multi", "2,5,9,6", horses); got != OutcomeLost {
		t.Errorf("missing a top4 finisher = %v, want lost", got)
	}
}

func TestResolve_Multi_PartialArrivalLoses(t *testing.T) {
	r := NewResolver(zap.NewNop())
	// Only the winner recorded so far: a multi cannot settle on that.
	horses := []models.Horse{horse(2, 1), horse(5, 0), horse(9, 0), horse(1, 0)}

	if got := r.Resolve("multi", "2,5,9,1", horses); got != OutcomeLost {
		t.Errorf("partial top4 = %v, want lost (top4 not all recorded)", got)
	}
}

func TestResolve_DeferredWhenNoFinishers(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 0), horse(7, 0)}

	if got := r.Resolve("gagnant", "4", horses); got != OutcomeDeferred {
		t.Errorf("no arrivals = %v, want deferred", got)
	}
	if OutcomeDeferred.Won() {
		t.Error("deferred must not read as won")
	}
}

func TestResolve_UnknownBetTypeNeverThrows(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 1)}

	got := r.Resolve("exotic_new_type", "4", horses)
	if got.Won() {
		t.Errorf("unknown bet type = %v, must not be won", got)
	}
	if got != OutcomeUnresolvable {
		t.Errorf("unknown bet type = %v, want unresolvable so the bet stays pending", got)
	}
}

func TestResolve_GarbageSelection(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(4, 1)}

	if got := r.Resolve("gagnant", "abc", horses); got.Won() {
		t.Errorf("garbage selection = %v, must not be won", got)
	}
}

func TestResolve_WrongArityLoses(t *testing.T) {
	r := NewResolver(zap.NewNop())
	horses := []models.Horse{horse(3, 1), horse(8, 2), horse(9, 3)}

	if got := r.Resolve("couple", "3", horses); got != OutcomeLost {
		t.Errorf("one pick for a couple = %v, want lost", got)
	}
}
