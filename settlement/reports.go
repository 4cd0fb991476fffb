package settlement

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
	"github.com/turfnote/turfapi/pmu"
)

// ReportStore persists and serves per-race settlement reports. Reports are
// upserted by (race_id, bet_type) so re-building from a later fetch
// converges rather than duplicating.
type ReportStore struct {
	db  *bun.DB
	log *zap.Logger
}

// NewReportStore builds a ReportStore.
func NewReportStore(db *bun.DB, log *zap.Logger) *ReportStore {
	return &ReportStore{db: db, log: log}
}

// BuildFromReports normalizes and persists the raw "rapports définitifs"
// for a race, then applies win/place dividends to the race's horses. A nil
// or empty payload means the race is not officially settled yet: the store
// stays empty for that race and no error is returned.
func (s *ReportStore) BuildFromReports(ctx context.Context, raceID int, raw []map[string]any) ([]models.Report, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	reports := pmu.NormalizeReports(raceID, raw)

	for i := range reports {
		rep := &reports[i]
		if _, err := s.db.NewInsert().Model(rep).
			On("CONFLICT (race_id, bet_type) DO UPDATE").
			Set("bet_family = EXCLUDED.bet_family").
			Set("base_stake = EXCLUDED.base_stake").
			Set("refunded = EXCLUDED.refunded").
			Set("lines = EXCLUDED.lines").
			Exec(ctx); err != nil {
			// One family's write failure does not lose the rest.
			s.log.Warn("upsert report failed",
				zap.Int("race_id", raceID),
				zap.String("bet_type", rep.BetType),
				zap.Error(err))
		}
	}

	for number, odds := range WinPlaceOdds(reports) {
		if _, err := s.db.NewUpdate().Model((*models.Horse)(nil)).
			Set("odds = ?", odds).
			Where("race_id = ? AND number = ?", raceID, number).
			Exec(ctx); err != nil {
			s.log.Warn("apply horse odds failed",
				zap.Int("race_id", raceID),
				zap.Int("number", number),
				zap.Error(err))
		}
	}

	return reports, nil
}

// GetReport returns the settlement report of one bet family for a race.
// A race with no report for that family yields sql.ErrNoRows; callers treat
// it as "not yet resolvable".
func (s *ReportStore) GetReport(ctx context.Context, raceID int, betType string) (*models.Report, error) {
	rep := new(models.Report)
	err := s.db.NewSelect().Model(rep).
		Where("race_id = ? AND bet_type = ?", raceID, betType).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return rep, nil
}

// WinPlaceOdds derives per-horse settlement odds from a race's reports:
// the SIMPLE_GAGNANT dividend is authoritative for the horse that won it,
// and SIMPLE_PLACE fills in only horses without a win price. Dividends are
// converted from cents to currency units.
func WinPlaceOdds(reports []models.Report) map[int]decimal.Decimal {
	odds := map[int]decimal.Decimal{}

	apply := func(betType string, winOnly bool) {
		for _, rep := range reports {
			if rep.BetType != betType {
				continue
			}
			for _, line := range rep.DecodeLines() {
				// Simple reports carry bare single numbers; anything
				// combined ("2-9") belongs to another family.
				number, err := strconv.Atoi(strings.TrimSpace(line.Combination))
				if err != nil || number <= 0 {
					continue
				}
				if _, has := odds[number]; has && !winOnly {
					continue
				}
				odds[number] = decimal.NewFromInt(line.DividendCents).Div(cents)
			}
		}
	}

	apply(ReportSimpleGagnant, true)
	apply(ReportSimplePlace, false)
	return odds
}
