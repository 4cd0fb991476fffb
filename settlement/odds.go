package settlement

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

// ErrNoOdds marks a soft lookup miss: no report for the race or family, or
// no matching combination. Callers keep the bet's prior odds/payout.
var ErrNoOdds = errors.New("settlement: no matching payout")

// ReportSource supplies the settlement report of one bet family for a race.
type ReportSource interface {
	GetReport(ctx context.Context, raceID int, betType string) (*models.Report, error)
}

// HorseSource supplies the horses of a race with their arrival orders.
type HorseSource interface {
	HorsesByRace(ctx context.Context, raceID int) ([]models.Horse, error)
}

var cents = decimal.NewFromInt(100)

// OddsEngine finds the payout dividend for a winning bet in the race's
// settlement reports, handling the ordered/unordered combination-key
// distinction across bet-type aliases.
type OddsEngine struct {
	reports ReportSource
	horses  HorseSource
	log     *zap.Logger
}

// NewOddsEngine builds an OddsEngine.
func NewOddsEngine(reports ReportSource, horses HorseSource, log *zap.Logger) *OddsEngine {
	return &OddsEngine{reports: reports, horses: horses, log: log}
}

// ResolveOdds returns the dividend per 1-unit stake, in currency units, for
// the given bet. Any miss at any stage returns ErrNoOdds.
func (e *OddsEngine) ResolveOdds(ctx context.Context, raceID int, betType, selectionText string) (decimal.Decimal, error) {
	fam, ok := FamilyFor(betType)
	if !ok {
		e.log.Warn("odds lookup for unknown bet type", zap.String("bet_type", betType))
		return decimal.Zero, ErrNoOdds
	}

	selectionAsEntered := ParseSelection(selectionText)
	if len(selectionAsEntered) == 0 {
		return decimal.Zero, ErrNoOdds
	}

	// The key the reports are indexed by is not the order the player typed.
	// Ordered families pay only the exact finish sequence, so the key is the
	// player's horses sorted by their actual arrival order; everything else
	// uses the ascending sort.
	var selectionForLookup []int
	if fam.OrderedKey {
		selectionForLookup = e.arrivalSorted(ctx, raceID, selectionAsEntered)
		if selectionForLookup == nil {
			return decimal.Zero, ErrNoOdds
		}
	} else {
		selectionForLookup = sortedCopy(selectionAsEntered)
	}

	for _, reportFamily := range reportFamilies(fam) {
		rep, err := e.reports.GetReport(ctx, raceID, reportFamily)
		if err != nil || rep == nil || rep.Refunded {
			continue
		}
		if c, ok := matchLine(rep.DecodeLines(), selectionForLookup, !fam.OrderedKey); ok {
			return decimal.NewFromInt(c).Div(cents), nil
		}
	}
	return decimal.Zero, ErrNoOdds
}

// reportFamilies lists the report tables to try, in order. gagnant_place is
// the one family with a fallback: the win table first, the place table when
// the selection did not finish first. Which dividend a combined win+place
// ticket should pay is genuinely ambiguous upstream; win-first matches the
// price the horse itself carries after report application.
func reportFamilies(fam Family) []string {
	if fam.Rule == ruleWinOrPlace {
		return []string{ReportSimpleGagnant, ReportSimplePlace}
	}
	return []string{fam.Report}
}

// arrivalSorted reorders the selection by the actual arrival order of those
// horses. nil when the race or any selected horse has no recorded arrival.
func (e *OddsEngine) arrivalSorted(ctx context.Context, raceID int, selection []int) []int {
	horses, err := e.horses.HorsesByRace(ctx, raceID)
	if err != nil {
		e.log.Warn("loading horses for ordered lookup failed",
			zap.Int("race_id", raceID), zap.Error(err))
		return nil
	}
	arrival := map[int]int{}
	for _, h := range horses {
		if h.ArrivalOrder != nil {
			arrival[h.Number] = *h.ArrivalOrder
		}
	}
	out := make([]int, len(selection))
	copy(out, selection)
	for _, n := range out {
		if _, ok := arrival[n]; !ok {
			return nil
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return arrival[out[i]] < arrival[out[j]]
	})
	return out
}

// matchLine finds the dividend for the combination, with fallbacks: a bare
// single number (single-horse combos may be stored without a "-"), and for
// sorted keys the reversed join (storage may use either orientation for
// desordre-type reports).
func matchLine(lines []models.ReportLine, selection []int, sorted bool) (int64, bool) {
	if c, ok := findCombination(lines, joinNumbers(selection)); ok {
		return c, true
	}
	if len(selection) == 1 {
		if c, ok := findCombination(lines, strconv.Itoa(selection[0])); ok {
			return c, true
		}
	}
	if sorted && len(selection) > 1 {
		if c, ok := findCombination(lines, joinNumbers(reversedCopy(selection))); ok {
			return c, true
		}
	}
	return 0, false
}

func findCombination(lines []models.ReportLine, key string) (int64, bool) {
	for _, l := range lines {
		if l.Combination == key {
			return l.DividendCents, true
		}
	}
	return 0, false
}
