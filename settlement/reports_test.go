package settlement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

func report(betType string, lines ...models.ReportLine) models.Report {
	return models.Report{BetType: betType, Lines: models.EncodeLines(lines)}
}

func TestWinPlaceOdds_WinPriceIsAuthoritative(t *testing.T) {
	reports := []models.Report{
		report(ReportSimpleGagnant, models.ReportLine{Combination: "4", DividendCents: 520}),
		report(ReportSimplePlace,
			models.ReportLine{Combination: "4", DividendCents: 210},
			models.ReportLine{Combination: "7", DividendCents: 180},
			models.ReportLine{Combination: "2", DividendCents: 340},
		),
	}

	odds := WinPlaceOdds(reports)

	// The winner keeps its win price; the place price must not overwrite it.
	if want := decimal.NewFromFloat(5.20); !odds[4].Equal(want) {
		t.Errorf("horse 4 odds = %s, want %s", odds[4], want)
	}
	// Place-only finishers get the place price.
	if want := decimal.NewFromFloat(1.80); !odds[7].Equal(want) {
		t.Errorf("horse 7 odds = %s, want %s", odds[7], want)
	}
	if want := decimal.NewFromFloat(3.40); !odds[2].Equal(want) {
		t.Errorf("horse 2 odds = %s, want %s", odds[2], want)
	}
}

func TestWinPlaceOdds_IgnoresMultiHorseCombinations(t *testing.T) {
	reports := []models.Report{
		report(ReportCoupleGagnant, models.ReportLine{Combination: "2-9", DividendCents: 1240}),
	}
	if odds := WinPlaceOdds(reports); len(odds) != 0 {
		t.Errorf("couple lines must not produce horse odds, got %v", odds)
	}
}

func TestWinPlaceOdds_EmptyReports(t *testing.T) {
	if odds := WinPlaceOdds(nil); len(odds) != 0 {
		t.Errorf("no reports should yield no odds, got %v", odds)
	}
}

func TestBuildFromReports_NoPayloadLeavesStoreUntouched(t *testing.T) {
	// A race without "rapports définitifs" yet: the store stays empty for it
	// and nothing is written (the nil db would panic on any query).
	s := NewReportStore(nil, zap.NewNop())

	for _, raw := range [][]map[string]any{nil, {}} {
		reports, err := s.BuildFromReports(context.Background(), 1, raw)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if reports != nil {
			t.Errorf("reports = %v, want nil", reports)
		}
	}
}
