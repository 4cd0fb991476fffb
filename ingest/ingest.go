// Package ingest pulls race data from the upstream provider into Postgres.
// Everything is keyed by natural keys and upserted, so a sync that dies
// half-way self-heals on the next run.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
	"github.com/turfnote/turfapi/pmu"
)

// Fetcher is the slice of the upstream client the sync service needs.
type Fetcher interface {
	GetProgramByDate(ctx context.Context, date string) (pmu.Program, error)
	GetRaceParticipants(ctx context.Context, date string, reunion, race int) ([]models.Horse, error)
	GetRaceDetails(ctx context.Context, date string, reunion, race int) (*pmu.RaceDetails, error)
	GetRaceReports(ctx context.Context, date string, reunion, race int) ([]map[string]any, error)
}

// RaceWriter is the persistence slice for race/horse upserts.
type RaceWriter interface {
	UpsertRace(ctx context.Context, race *models.Race) error
	UpsertHorse(ctx context.Context, horse *models.Horse) error
	SetArrivalOrder(ctx context.Context, raceID, number, order int) error
	MarkArriveeDefinitive(ctx context.Context, raceID int) error
}

// ReportBuilder persists a race's settlement reports.
type ReportBuilder interface {
	BuildFromReports(ctx context.Context, raceID int, raw []map[string]any) ([]models.Report, error)
}

// Result tracks counts and errors from one sync operation.
type Result struct {
	RacesUpserted  int
	HorsesUpserted int
	ReportsBuilt   int
	Errors         []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("races=%d horses=%d reports=%d errors=%d",
		r.RacesUpserted, r.HorsesUpserted, r.ReportsBuilt, len(r.Errors))
}

// Service orchestrates program and race syncs. Upstream calls within one
// batch are spaced by FetchDelay; the provider rate-limits bursts.
type Service struct {
	fetcher    Fetcher
	races      RaceWriter
	reports    ReportBuilder
	log        *zap.Logger
	FetchDelay time.Duration
}

// New builds a Service.
func New(fetcher Fetcher, races RaceWriter, reports ReportBuilder, log *zap.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		races:      races,
		reports:    reports,
		log:        log,
		FetchDelay: 400 * time.Millisecond,
	}
}

// SyncProgramByDate upserts every race of the day's program. One race's
// write failure is recorded and does not abort the batch.
func (s *Service) SyncProgramByDate(ctx context.Context, date string) Result {
	var res Result

	prog, err := s.fetcher.GetProgramByDate(ctx, date)
	if err != nil {
		s.log.Warn("program fetch failed", zap.String("date", date), zap.Error(err))
		res.AddErrorf("program %s: %v", date, err)
		return res
	}

	for _, meeting := range prog.Meetings {
		for _, pr := range meeting.Races {
			race := &models.Race{
				HippodromeCode: meeting.Hippodrome.Code,
				Date:           date,
				ReunionNumber:  meeting.Number,
				RaceNumber:     pr.Number,
				Name:           pr.Name,
				StartTime:      pr.StartTime,
				Discipline:     pr.Discipline,
				Distance:       pr.Distance,
				Prize:          pr.Prize,
			}
			if meeting.Hippodrome.Name != "" {
				name := meeting.Hippodrome.Name
				race.HippodromeName = &name
			}
			if err := s.races.UpsertRace(ctx, race); err != nil {
				res.AddErrorf("race R%dC%d: %v", meeting.Number, pr.Number, err)
				continue
			}
			res.RacesUpserted++
		}
	}

	s.log.Info("program sync done", zap.String("date", date), zap.String("summary", res.Summary()))
	return res
}

// RefreshRace re-fetches a race's participants, arrival order and, once the
// finish is official, its settlement reports. Best-effort: each stage logs
// and continues so one endpoint's failure does not lose the others.
func (s *Service) RefreshRace(ctx context.Context, race *models.Race) error {
	res := s.refreshRace(ctx, race)
	if len(res.Errors) > 0 {
		return fmt.Errorf("refresh race %d: %s", race.RaceID, res.Errors[0])
	}
	return nil
}

func (s *Service) refreshRace(ctx context.Context, race *models.Race) Result {
	var res Result

	horses, err := s.fetcher.GetRaceParticipants(ctx, race.Date, race.ReunionNumber, race.RaceNumber)
	if err != nil {
		s.log.Warn("participants fetch failed", zap.Int("race_id", race.RaceID), zap.Error(err))
		res.AddErrorf("participants: %v", err)
	}
	for i := range horses {
		horses[i].RaceID = race.RaceID
		if err := s.races.UpsertHorse(ctx, &horses[i]); err != nil {
			res.AddErrorf("horse %d: %v", horses[i].Number, err)
			continue
		}
		res.HorsesUpserted++
	}

	s.pause(ctx)
	details, err := s.fetcher.GetRaceDetails(ctx, race.Date, race.ReunionNumber, race.RaceNumber)
	if err != nil {
		s.log.Warn("details fetch failed", zap.Int("race_id", race.RaceID), zap.Error(err))
		res.AddErrorf("details: %v", err)
	}
	if details != nil {
		for i, number := range details.FinishOrder {
			if err := s.races.SetArrivalOrder(ctx, race.RaceID, number, i+1); err != nil {
				res.AddErrorf("arrival %d: %v", number, err)
			}
		}
		if details.ArriveeDefinitive && !race.ArriveeDefinitive {
			if err := s.races.MarkArriveeDefinitive(ctx, race.RaceID); err != nil {
				res.AddErrorf("arrivee definitive: %v", err)
			} else {
				race.ArriveeDefinitive = true
			}
		}
	}

	if race.ArriveeDefinitive {
		s.pause(ctx)
		raw, err := s.fetcher.GetRaceReports(ctx, race.Date, race.ReunionNumber, race.RaceNumber)
		if err != nil {
			s.log.Warn("reports fetch failed", zap.Int("race_id", race.RaceID), zap.Error(err))
			res.AddErrorf("reports: %v", err)
		} else if raw != nil {
			built, err := s.reports.BuildFromReports(ctx, race.RaceID, raw)
			if err != nil {
				res.AddErrorf("build reports: %v", err)
			} else {
				res.ReportsBuilt += len(built)
			}
		}
	}

	return res
}

func (s *Service) pause(ctx context.Context) {
	if s.FetchDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.FetchDelay):
	case <-ctx.Done():
	}
}
