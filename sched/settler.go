package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
	"github.com/turfnote/turfapi/settlement"
)

// BetStore is the persistence slice the settler needs for bets.
type BetStore interface {
	PendingAutoBets(ctx context.Context, cutoff time.Time) ([]models.Bet, error)
	PendingManualBets(ctx context.Context, now time.Time) ([]models.Bet, error)
	SettleBet(ctx context.Context, betID int, status string, odds, payout, profit *decimal.Decimal) error
	MarkManualNotified(ctx context.Context, betID int) error
}

// RaceStore loads races and their participants.
type RaceStore interface {
	RaceByID(ctx context.Context, raceID int) (*models.Race, error)
	HorsesByRace(ctx context.Context, raceID int) ([]models.Horse, error)
}

// Refresher re-fetches a race's results and reports from upstream.
type Refresher interface {
	RefreshRace(ctx context.Context, race *models.Race) error
}

// OddsResolver finds the payout dividend for a winning bet.
type OddsResolver interface {
	ResolveOdds(ctx context.Context, raceID int, betType, selectionText string) (decimal.Decimal, error)
}

// Notifier emits a result notification across channels.
type Notifier interface {
	Notify(ctx context.Context, userID int, title, body string, meta map[string]string)
}

// Settler runs the periodic settlement pass: pending PMU bets whose race
// is comfortably over are refreshed, resolved and persisted one by one.
// Bets are processed sequentially; the race-data provider rate-limits
// bursts, so consecutive refreshes are spaced by Delay.
type Settler struct {
	bets      BetStore
	races     RaceStore
	refresher Refresher
	resolver  *settlement.Resolver
	odds      OddsResolver
	notify    Notifier
	log       *zap.Logger

	// Grace keeps the tick from querying results too early after the off.
	Grace time.Duration
	Delay time.Duration
}

// NewSettler builds a Settler.
func NewSettler(bets BetStore, races RaceStore, refresher Refresher, resolver *settlement.Resolver, odds OddsResolver, notifier Notifier, log *zap.Logger) *Settler {
	return &Settler{
		bets:      bets,
		races:     races,
		refresher: refresher,
		resolver:  resolver,
		odds:      odds,
		notify:    notifier,
		log:       log,
		Grace:     15 * time.Minute,
		Delay:     400 * time.Millisecond,
	}
}

// Tick runs one settlement pass. Every failure inside the pass is per-bet:
// logged, skipped, retried next tick. Nothing here is fatal.
func (s *Settler) Tick(ctx context.Context) {
	cutoff := time.Now().Add(-s.Grace)

	pending, err := s.bets.PendingAutoBets(ctx, cutoff)
	if err != nil {
		s.log.Error("loading pending bets failed", zap.Error(err))
	} else {
		for i := range pending {
			if i > 0 {
				s.pause(ctx)
			}
			s.settleOne(ctx, &pending[i])
		}
	}

	s.flagManualBets(ctx)
}

func (s *Settler) settleOne(ctx context.Context, bet *models.Bet) {
	if bet.RaceID == nil {
		return
	}
	race, err := s.races.RaceByID(ctx, *bet.RaceID)
	if err != nil {
		s.log.Warn("race load failed", zap.Int("bet_id", bet.BetID), zap.Error(err))
		return
	}

	// Best-effort refresh; stale local data still settles if the arrival
	// order is already in.
	if err := s.refresher.RefreshRace(ctx, race); err != nil {
		s.log.Warn("race refresh failed", zap.Int("race_id", race.RaceID), zap.Error(err))
	}

	horses, err := s.races.HorsesByRace(ctx, race.RaceID)
	if err != nil {
		s.log.Warn("horses load failed", zap.Int("race_id", race.RaceID), zap.Error(err))
		return
	}

	outcome := s.resolver.Resolve(bet.BetType, bet.HorsesSelected, horses)
	switch outcome {
	case settlement.OutcomeDeferred, settlement.OutcomeUnresolvable:
		return
	case settlement.OutcomeWon:
		s.settleWon(ctx, bet, race)
	case settlement.OutcomeLost:
		loss := bet.Stake.Neg()
		if err := s.bets.SettleBet(ctx, bet.BetID, models.BetStatusLost, nil, nil, &loss); err != nil {
			s.log.Warn("persist lost bet failed", zap.Int("bet_id", bet.BetID), zap.Error(err))
			return
		}
		s.notify.Notify(ctx, bet.UserID, "Pari perdu",
			fmt.Sprintf("Votre pari %s est perdu.", bet.BetType),
			map[string]string{"betId": fmt.Sprint(bet.BetID), "status": models.BetStatusLost})
	}
}

func (s *Settler) settleWon(ctx context.Context, bet *models.Bet, race *models.Race) {
	var oddsP, payoutP, profitP *decimal.Decimal

	odds, err := s.odds.ResolveOdds(ctx, race.RaceID, bet.BetType, bet.HorsesSelected)
	if err != nil {
		// Soft miss: the bet is won but its dividend is not in the reports
		// (yet); persist the win and leave the money fields untouched.
		s.log.Warn("odds lookup missed", zap.Int("bet_id", bet.BetID), zap.Error(err))
	} else {
		payout := odds.Mul(bet.Stake)
		profit := payout.Sub(bet.Stake)
		oddsP, payoutP, profitP = &odds, &payout, &profit
	}

	if err := s.bets.SettleBet(ctx, bet.BetID, models.BetStatusWon, oddsP, payoutP, profitP); err != nil {
		s.log.Warn("persist won bet failed", zap.Int("bet_id", bet.BetID), zap.Error(err))
		return
	}
	body := fmt.Sprintf("Votre pari %s est gagnant.", bet.BetType)
	if payoutP != nil {
		body = fmt.Sprintf("Votre pari %s est gagnant : %s.", bet.BetType, payoutP.StringFixed(2))
	}
	s.notify.Notify(ctx, bet.UserID, "Pari gagné", body,
		map[string]string{"betId": fmt.Sprint(bet.BetID), "status": models.BetStatusWon})
}

// flagManualBets reminds users once about pending bets on platforms this
// service cannot settle. The flag flips after the notification so users are
// not re-spammed every tick.
func (s *Settler) flagManualBets(ctx context.Context) {
	manual, err := s.bets.PendingManualBets(ctx, time.Now())
	if err != nil {
		s.log.Error("loading manual bets failed", zap.Error(err))
		return
	}
	for _, bet := range manual {
		s.notify.Notify(ctx, bet.UserID, "Pari à mettre à jour",
			fmt.Sprintf("Votre pari %s attend son résultat : renseignez-le manuellement.", bet.BetType),
			map[string]string{"betId": fmt.Sprint(bet.BetID), "status": models.BetStatusPending})
		if err := s.bets.MarkManualNotified(ctx, bet.BetID); err != nil {
			s.log.Warn("flag manual bet failed", zap.Int("bet_id", bet.BetID), zap.Error(err))
		}
	}
}

func (s *Settler) pause(ctx context.Context) {
	if s.Delay <= 0 {
		return
	}
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
	}
}
