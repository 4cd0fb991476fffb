// Package pmu talks to the upstream PMU open-data API and normalizes its
// payloads into the canonical shapes the rest of the service uses.
package pmu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

// Client fetches race programs, participants, details and settlement
// reports. Every call is bounded by the configured timeout; a timeout or
// non-2xx status is a fetch failure the caller treats as "no data yet".
type Client struct {
	base  string
	httpc *http.Client
	log   *zap.Logger
}

// NewClient builds a Client for the given API base URL.
func NewClient(base string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		base:  base,
		httpc: &http.Client{Timeout: timeout},
		log:   log,
	}
}

// pmuDate converts an ISO date (2006-01-02) to the ddMMyyyy path segment
// the upstream expects. Anything unparseable is passed through untouched.
func pmuDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02012006")
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return errNoData
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pmu: %s returned %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errNoData marks a 204/404: the upstream has nothing for that resource
// yet. Callers get a nil payload and nil error for it.
var errNoData = fmt.Errorf("pmu: no data")

// GetProgramByDate returns the normalized program for an ISO date.
func (c *Client) GetProgramByDate(ctx context.Context, date string) (Program, error) {
	url := fmt.Sprintf("%s/programme/%s", c.base, pmuDate(date))
	var raw map[string]any
	if err := c.getJSON(ctx, url, &raw); err != nil {
		if err == errNoData {
			return Program{}, nil
		}
		return Program{}, fmt.Errorf("fetch program %s: %w", date, err)
	}
	return NormalizeProgram(raw), nil
}

// GetRaceParticipants returns the normalized participants of one race.
func (c *Client) GetRaceParticipants(ctx context.Context, date string, reunion, race int) ([]models.Horse, error) {
	url := fmt.Sprintf("%s/programme/%s/R%d/C%d/participants", c.base, pmuDate(date), reunion, race)
	var raw map[string]any
	if err := c.getJSON(ctx, url, &raw); err != nil {
		if err == errNoData {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch participants R%dC%d %s: %w", reunion, race, date, err)
	}
	return NormalizeParticipants(raw), nil
}

// GetRaceDetails returns the normalized course detail, or nil when the
// upstream has none yet.
func (c *Client) GetRaceDetails(ctx context.Context, date string, reunion, race int) (*RaceDetails, error) {
	url := fmt.Sprintf("%s/programme/%s/R%d/C%d", c.base, pmuDate(date), reunion, race)
	var raw map[string]any
	if err := c.getJSON(ctx, url, &raw); err != nil {
		if err == errNoData {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch details R%dC%d %s: %w", reunion, race, date, err)
	}
	return NormalizeRaceDetails(raw), nil
}

// GetRaceReports returns the raw settlement reports for one race, or nil
// when the race has no official results yet. nil, nil is the expected
// pre-settlement answer, not an error.
func (c *Client) GetRaceReports(ctx context.Context, date string, reunion, race int) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/programme/%s/R%d/C%d/rapports-definitifs", c.base, pmuDate(date), reunion, race)
	var raw []map[string]any
	if err := c.getJSON(ctx, url, &raw); err != nil {
		if err == errNoData {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch reports R%dC%d %s: %w", reunion, race, date, err)
	}
	return raw, nil
}
