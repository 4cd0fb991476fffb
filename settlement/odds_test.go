package settlement

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

type fakeReports struct {
	byFamily map[string][]models.ReportLine
}

func (f *fakeReports) GetReport(_ context.Context, raceID int, betType string) (*models.Report, error) {
	lines, ok := f.byFamily[betType]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.Report{
		RaceID:  raceID,
		BetType: betType,
		Lines:   models.EncodeLines(lines),
	}, nil
}

type fakeHorses struct {
	horses []models.Horse
}

func (f *fakeHorses) HorsesByRace(context.Context, int) ([]models.Horse, error) {
	return f.horses, nil
}

func newEngine(byFamily map[string][]models.ReportLine, horses []models.Horse) *OddsEngine {
	return NewOddsEngine(
		&fakeReports{byFamily: byFamily},
		&fakeHorses{horses: horses},
		zap.NewNop(),
	)
}

func TestResolveOdds_UnorderedKeyIsAscendingSort(t *testing.T) {
	// 9 won, 2 came second: an unordered couple still looks up "2-9".
	e := newEngine(map[string][]models.ReportLine{
		ReportCoupleGagnant: {{Combination: "2-9", DividendCents: 1240}},
	}, []models.Horse{horse(9, 1), horse(2, 2)})

	odds, err := e.ResolveOdds(context.Background(), 1, "couple", "9,2")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if want := decimal.NewFromFloat(12.40); !odds.Equal(want) {
		t.Errorf("odds = %s, want %s", odds, want)
	}
}

func TestResolveOdds_OrderedKeyFollowsFinishOrder(t *testing.T) {
	// Typed "9,2" but 2 finished before 9: the ordered key is "2-9".
	e := newEngine(map[string][]models.ReportLine{
		ReportCoupleOrdre: {{Combination: "2-9", DividendCents: 4810}},
	}, []models.Horse{horse(2, 1), horse(9, 2), horse(5, 3)})

	odds, err := e.ResolveOdds(context.Background(), 1, "couple_ordre", "9,2")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if want := decimal.NewFromFloat(48.10); !odds.Equal(want) {
		t.Errorf("odds = %s, want %s", odds, want)
	}
}

func TestResolveOdds_CentsRoundTrip(t *testing.T) {
	e := newEngine(map[string][]models.ReportLine{
		ReportSimpleGagnant: {{Combination: "7", DividendCents: 350}},
	}, nil)

	odds, err := e.ResolveOdds(context.Background(), 1, "gagnant", "7 - Storm")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if want := decimal.NewFromFloat(3.50); !odds.Equal(want) {
		t.Errorf("odds = %s, want %s", odds, want)
	}
}

func TestResolveOdds_ReversedOrientationFallback(t *testing.T) {
	// Desordre-type storage may carry either orientation.
	e := newEngine(map[string][]models.ReportLine{
		ReportCoupleGagnant: {{Combination: "9-2", DividendCents: 760}},
	}, nil)

	odds, err := e.ResolveOdds(context.Background(), 1, "couple", "2,9")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if want := decimal.NewFromFloat(7.60); !odds.Equal(want) {
		t.Errorf("odds = %s, want %s", odds, want)
	}
}

func TestResolveOdds_GagnantPlaceFallsBackToPlaceTable(t *testing.T) {
	// The selection did not win, so the win table has no line for it; the
	// place table does.
	e := newEngine(map[string][]models.ReportLine{
		ReportSimpleGagnant: {{Combination: "4", DividendCents: 520}},
		ReportSimplePlace:   {{Combination: "7", DividendCents: 180}},
	}, nil)

	odds, err := e.ResolveOdds(context.Background(), 1, "gagnant_place", "7")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if want := decimal.NewFromFloat(1.80); !odds.Equal(want) {
		t.Errorf("odds = %s, want %s", odds, want)
	}
}

func TestResolveOdds_SoftMisses(t *testing.T) {
	e := newEngine(map[string][]models.ReportLine{
		ReportSimpleGagnant: {{Combination: "4", DividendCents: 520}},
	}, []models.Horse{horse(4, 1)})

	cases := []struct {
		name      string
		betType   string
		selection string
	}{
		{"no report for family", "trio", "1,2,3"},
		{"no matching combination", "gagnant", "9"},
		{"unknown alias", "exotic_new_type", "4"},
		{"empty selection", "gagnant", "abc"},
	}
	for _, tc := range cases {
		if _, err := e.ResolveOdds(context.Background(), 1, tc.betType, tc.selection); err != ErrNoOdds {
			t.Errorf("%s: err = %v, want ErrNoOdds", tc.name, err)
		}
	}
}

func TestResolveOdds_OrderedMissesWithoutArrivals(t *testing.T) {
	// An ordered key cannot be built before the finish order exists.
	e := newEngine(map[string][]models.ReportLine{
		ReportCoupleOrdre: {{Combination: "2-9", DividendCents: 4810}},
	}, []models.Horse{horse(2, 0), horse(9, 0)})

	if _, err := e.ResolveOdds(context.Background(), 1, "couple_ordre", "2,9"); err != ErrNoOdds {
		t.Errorf("err = %v, want ErrNoOdds", err)
	}
}

func TestResolveOdds_AllAliasesStayDataDriven(t *testing.T) {
	// Sanity: every alias resolves through the engine without panicking,
	// hit or miss.
	e := newEngine(map[string][]models.ReportLine{}, []models.Horse{horse(1, 1), horse(2, 2), horse(3, 3), horse(4, 4), horse(5, 5)})
	for i, alias := range KnownAliases() {
		sel := ""
		for n := 1; n <= 5; n++ {
			if n > 1 {
				sel += ","
			}
			sel += fmt.Sprint(n)
		}
		if _, err := e.ResolveOdds(context.Background(), i+1, alias, sel); err != ErrNoOdds {
			t.Errorf("alias %q: err = %v, want ErrNoOdds on empty store", alias, err)
		}
	}
}
