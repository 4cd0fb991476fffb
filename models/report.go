package models

import (
	"encoding/json"

	"github.com/uptrace/bun"
)

// ReportLine is one combination→dividend pair from a settlement report.
// Combination is a "-"-joined sequence of horse numbers; DividendCents is
// the dividend for a 1-unit stake, in cents as published upstream.
type ReportLine struct {
	Combination   string `json:"combinaison"`
	DividendCents int64  `json:"dividendePourUnEuro"`
}

// Report is the official payout table for one bet family in one race,
// present only after the race has "rapports définitifs". Combination values
// are unique within one report.
type Report struct {
	bun.BaseModel `bun:"table:reports,alias:rp"`

	ReportID   int             `bun:"report_id,pk,autoincrement" json:"reportID"`
	RaceID     int             `bun:"race_id,notnull" json:"raceID"`
	BetType    string          `bun:"bet_type,notnull" json:"betType"`
	BetFamily  *string         `bun:"bet_family" json:"betFamily,omitempty"`
	BaseStake  *int            `bun:"base_stake" json:"baseStake,omitempty"`
	Refunded   bool            `bun:"refunded,notnull,default:false" json:"refunded"`
	Lines      json.RawMessage `bun:"lines,notnull,type:jsonb" json:"lines"`

	Race *Race `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
}

// DecodeLines unmarshals the stored combination list. A malformed or empty
// column decodes to an empty slice, never an error surfaced to settlement.
func (r *Report) DecodeLines() []ReportLine {
	var lines []ReportLine
	if len(r.Lines) == 0 {
		return lines
	}
	if err := json.Unmarshal(r.Lines, &lines); err != nil {
		return nil
	}
	return lines
}

// EncodeLines marshals combination lines for storage.
func EncodeLines(lines []ReportLine) json.RawMessage {
	raw, err := json.Marshal(lines)
	if err != nil {
		return json.RawMessage(`[]`)
	}
	return raw
}
