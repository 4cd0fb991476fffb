package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Race is one course within a réunion. The natural key is
// (hippodrome_code, date, reunion_number, race_number); upstream payloads are
// upserted against it so repeated syncs converge.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID            int        `bun:"race_id,pk,autoincrement" json:"raceID"`
	HippodromeCode    string     `bun:"hippodrome_code,notnull" json:"hippodromeCode"`
	HippodromeName    *string    `bun:"hippodrome_name" json:"hippodromeName,omitempty"`
	Date              string     `bun:"date,notnull,type:date" json:"date"`
	ReunionNumber     int        `bun:"reunion_number,notnull" json:"reunionNumber"`
	RaceNumber        int        `bun:"race_number,notnull" json:"raceNumber"`
	Name              *string    `bun:"name" json:"name,omitempty"`
	StartTime         *time.Time `bun:"start_time" json:"startTime,omitempty"`
	Discipline        *string    `bun:"discipline" json:"discipline,omitempty"`
	Distance          *int       `bun:"distance" json:"distance,omitempty"`
	Prize             *int       `bun:"prize" json:"prize,omitempty"`
	ArriveeDefinitive bool       `bun:"arrivee_definitive,notnull,default:false" json:"arriveeDefinitive"`

	Horses  []*Horse  `bun:"rel:has-many,join:race_id=race_id" json:"horses,omitempty"`
	Reports []*Report `bun:"rel:has-many,join:race_id=race_id" json:"reports,omitempty"`
}
