// Package store wraps the bun queries the ingest and settlement paths
// share. Races, horses and reports are addressed by their natural keys so
// repeated, possibly-partial syncs converge to a consistent state.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/turfnote/turfapi/models"
)

// Store is a bun-backed implementation of the persistence contracts used by
// the sync service, the odds engine and the settler.
type Store struct {
	db *bun.DB
}

// New builds a Store.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// UpsertRace inserts or updates a race by its natural key and fills in the
// surrogate RaceID.
func (s *Store) UpsertRace(ctx context.Context, race *models.Race) error {
	_, err := s.db.NewInsert().Model(race).
		On("CONFLICT (hippodrome_code, date, reunion_number, race_number) DO UPDATE").
		Set("hippodrome_name = COALESCE(EXCLUDED.hippodrome_name, rc.hippodrome_name)").
		Set("name = COALESCE(EXCLUDED.name, rc.name)").
		Set("start_time = COALESCE(EXCLUDED.start_time, rc.start_time)").
		Set("discipline = COALESCE(EXCLUDED.discipline, rc.discipline)").
		Set("distance = COALESCE(EXCLUDED.distance, rc.distance)").
		Set("prize = COALESCE(EXCLUDED.prize, rc.prize)").
		Set("arrivee_definitive = rc.arrivee_definitive OR EXCLUDED.arrivee_definitive").
		Returning("race_id").
		Exec(ctx)
	return err
}

// UpsertHorse inserts or updates a participant by (race_id, number).
// Enrichment never regresses: absent upstream fields keep the stored value.
func (s *Store) UpsertHorse(ctx context.Context, horse *models.Horse) error {
	_, err := s.db.NewInsert().Model(horse).
		On("CONFLICT (race_id, number) DO UPDATE").
		Set("name = COALESCE(EXCLUDED.name, h.name)").
		Set("arrival_order = COALESCE(EXCLUDED.arrival_order, h.arrival_order)").
		Set("jockey = COALESCE(EXCLUDED.jockey, h.jockey)").
		Set("trainer = COALESCE(EXCLUDED.trainer, h.trainer)").
		Set("recent_form = COALESCE(EXCLUDED.recent_form, h.recent_form)").
		Set("blinkers = EXCLUDED.blinkers").
		Set("first_time = EXCLUDED.first_time").
		Set("age = COALESCE(EXCLUDED.age, h.age)").
		Set("sex = COALESCE(EXCLUDED.sex, h.sex)").
		Set("career_races = COALESCE(EXCLUDED.career_races, h.career_races)").
		Set("career_wins = COALESCE(EXCLUDED.career_wins, h.career_wins)").
		Returning("horse_id").
		Exec(ctx)
	return err
}

// SetArrivalOrder records one horse's finish position.
func (s *Store) SetArrivalOrder(ctx context.Context, raceID, number, order int) error {
	_, err := s.db.NewUpdate().Model((*models.Horse)(nil)).
		Set("arrival_order = ?", order).
		Where("race_id = ? AND number = ?", raceID, number).
		Exec(ctx)
	return err
}

// MarkArriveeDefinitive flips the finish-confirmed flag for a race.
func (s *Store) MarkArriveeDefinitive(ctx context.Context, raceID int) error {
	_, err := s.db.NewUpdate().Model((*models.Race)(nil)).
		Set("arrivee_definitive = true").
		Where("race_id = ?", raceID).
		Exec(ctx)
	return err
}

// RaceByID loads one race.
func (s *Store) RaceByID(ctx context.Context, raceID int) (*models.Race, error) {
	race := new(models.Race)
	if err := s.db.NewSelect().Model(race).
		Where("rc.race_id = ?", raceID).
		Scan(ctx); err != nil {
		return nil, err
	}
	return race, nil
}

// RaceByKey loads one race by its natural key.
func (s *Store) RaceByKey(ctx context.Context, hippodromeCode, date string, reunion, race int) (*models.Race, error) {
	r := new(models.Race)
	if err := s.db.NewSelect().Model(r).
		Where("rc.hippodrome_code = ? AND rc.date = ? AND rc.reunion_number = ? AND rc.race_number = ?",
			hippodromeCode, date, reunion, race).
		Scan(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// HorsesByRace loads a race's participants ordered by number.
func (s *Store) HorsesByRace(ctx context.Context, raceID int) ([]models.Horse, error) {
	var horses []models.Horse
	if err := s.db.NewSelect().Model(&horses).
		Where("race_id = ?", raceID).
		Order("number ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return horses, nil
}

// PendingAutoBets returns pending PMU bets whose race started at or before
// the cutoff. The status filter is what makes settlement ticks idempotent:
// a bet settled once is never selected again.
func (s *Store) PendingAutoBets(ctx context.Context, cutoff time.Time) ([]models.Bet, error) {
	var bets []models.Bet
	if err := s.db.NewSelect().Model(&bets).
		Join("JOIN races AS rc ON rc.race_id = b.race_id").
		Where("b.status = ?", models.BetStatusPending).
		Where("b.platform = ?", models.PlatformPMU).
		Where("rc.start_time IS NOT NULL AND rc.start_time <= ?", cutoff).
		Order("bet_id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return bets, nil
}

// PendingManualBets returns pending non-PMU bets past their event time that
// have not been reminded yet. Bets without a race link fall back to their
// own event timestamp.
func (s *Store) PendingManualBets(ctx context.Context, now time.Time) ([]models.Bet, error) {
	var bets []models.Bet
	if err := s.db.NewSelect().Model(&bets).
		Join("LEFT JOIN races AS rc ON rc.race_id = b.race_id").
		Where("b.status = ?", models.BetStatusPending).
		Where("b.notified_manual = false").
		Where("(b.platform != ? OR b.race_id IS NULL)", models.PlatformPMU).
		Where("COALESCE(b.event_at, rc.start_time) <= ?", now).
		Order("bet_id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return bets, nil
}

// SettleBet writes a bet's settlement fields. The pending guard keeps the
// write idempotent: once a bet is won or lost its odds, payout and profit
// are immutable inputs to reporting.
func (s *Store) SettleBet(ctx context.Context, betID int, status string, odds, payout, profit *decimal.Decimal) error {
	_, err := s.db.NewUpdate().Model((*models.Bet)(nil)).
		Set("status = ?", status).
		Set("odds = ?", odds).
		Set("payout = ?", payout).
		Set("profit = ?", profit).
		Where("bet_id = ? AND status = ?", betID, models.BetStatusPending).
		Exec(ctx)
	return err
}

// MarkManualNotified flips the one-shot reminder flag for a manual bet.
func (s *Store) MarkManualNotified(ctx context.Context, betID int) error {
	_, err := s.db.NewUpdate().Model((*models.Bet)(nil)).
		Set("notified_manual = true").
		Where("bet_id = ?", betID).
		Exec(ctx)
	return err
}

// UserByID loads one user.
func (s *Store) UserByID(ctx context.Context, userID int) (*models.User, error) {
	user := new(models.User)
	if err := s.db.NewSelect().Model(user).
		Where("id = ?", userID).
		Scan(ctx); err != nil {
		return nil, err
	}
	return user, nil
}
