package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/turfnote/turfapi/models"
)

// raceRunnerRow is a flat scan target for the races/horses join query.
type raceRunnerRow struct {
	// races table (alias rc)
	RaceID            int        `bun:"race_id"`
	HippodromeCode    string     `bun:"hippodrome_code"`
	HippodromeName    *string    `bun:"hippodrome_name"`
	Date              string     `bun:"date"`
	ReunionNumber     int        `bun:"reunion_number"`
	RaceNumber        int        `bun:"race_number"`
	RaceName          *string    `bun:"race_name"`
	StartTime         *time.Time `bun:"start_time"`
	Discipline        *string    `bun:"discipline"`
	Distance          *int       `bun:"distance"`
	ArriveeDefinitive bool       `bun:"arrivee_definitive"`
	// horses table (alias h)
	Number       *int             `bun:"number"`
	HorseName    *string          `bun:"horse_name"`
	ArrivalOrder *int             `bun:"arrival_order"`
	Odds         *decimal.Decimal `bun:"odds"`
	Jockey       *string          `bun:"jockey"`
}

type raceRunner struct {
	Number       int              `json:"number"`
	Name         *string          `json:"name,omitempty"`
	ArrivalOrder *int             `json:"arrivalOrder,omitempty"`
	Odds         *decimal.Decimal `json:"odds,omitempty"`
	Jockey       *string          `json:"jockey,omitempty"`
}

type raceCard struct {
	RaceID            int          `json:"raceID"`
	HippodromeCode    string       `json:"hippodromeCode"`
	HippodromeName    *string      `json:"hippodromeName,omitempty"`
	Date              string       `json:"date"`
	ReunionNumber     int          `json:"reunionNumber"`
	RaceNumber        int          `json:"raceNumber"`
	Name              *string      `json:"name,omitempty"`
	StartTime         *time.Time   `json:"startTime,omitempty"`
	Discipline        *string      `json:"discipline,omitempty"`
	Distance          *int         `json:"distance,omitempty"`
	ArriveeDefinitive bool         `json:"arriveeDefinitive"`
	Runners           []raceRunner `json:"runners"`
}

const racesJoinSQL = `
SELECT
	rc.race_id, rc.hippodrome_code, rc.hippodrome_name, rc.date::text AS date,
	rc.reunion_number, rc.race_number, rc.name AS race_name, rc.start_time,
	rc.discipline, rc.distance, rc.arrivee_definitive,
	h.number, h.name AS horse_name, h.arrival_order, h.odds, h.jockey
FROM races rc
LEFT JOIN horses h ON h.race_id = rc.race_id
`

// Races returns the day's races with their runners, grouped by race.
func (h *Handler) Races(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing date param")
	}

	var rows []raceRunnerRow
	q := racesJoinSQL + `WHERE rc.date = ? ORDER BY rc.reunion_number, rc.race_number, h.number`
	if err := h.db.NewRaw(q, date).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, groupRunnersByRace(rows))
}

// RaceReports returns the settlement reports stored for one race.
func (h *Handler) RaceReports(c echo.Context) error {
	raceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid race id")
	}

	var reports []models.Report
	if err := h.db.NewSelect().Model(&reports).
		Where("race_id = ?", raceID).
		Order("bet_type ASC").
		Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reports)
}

// SyncProgram triggers an on-demand program sync for one date.
func (h *Handler) SyncProgram(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing date param")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	res := h.sync.SyncProgramByDate(c.Request().Context(), date)
	return c.JSON(http.StatusOK, map[string]any{
		"summary": res.Summary(),
		"errors":  res.Errors,
	})
}

// groupRunnersByRace converts flat rows into race-grouped cards.
func groupRunnersByRace(rows []raceRunnerRow) []raceCard {
	order := []string{}
	races := map[string]*raceCard{}

	for _, row := range rows {
		key := fmt.Sprintf("%d", row.RaceID)
		if _, ok := races[key]; !ok {
			order = append(order, key)
			races[key] = &raceCard{
				RaceID:            row.RaceID,
				HippodromeCode:    row.HippodromeCode,
				HippodromeName:    row.HippodromeName,
				Date:              row.Date,
				ReunionNumber:     row.ReunionNumber,
				RaceNumber:        row.RaceNumber,
				Name:              row.RaceName,
				StartTime:         row.StartTime,
				Discipline:        row.Discipline,
				Distance:          row.Distance,
				ArriveeDefinitive: row.ArriveeDefinitive,
				Runners:           []raceRunner{},
			}
		}
		if row.Number != nil {
			races[key].Runners = append(races[key].Runners, raceRunner{
				Number:       *row.Number,
				Name:         row.HorseName,
				ArrivalOrder: row.ArrivalOrder,
				Odds:         row.Odds,
				Jockey:       row.Jockey,
			})
		}
	}

	out := make([]raceCard, 0, len(order))
	for _, k := range order {
		out = append(out, *races[k])
	}
	return out
}
