package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Horse is a participant within one race, not a global horse entity.
// Number is unique per race. ArrivalOrder stays null until the race settles;
// 1 is the winner and non-finishers keep null. Odds holds the settlement
// win (or place-only) dividend in currency units.
type Horse struct {
	bun.BaseModel `bun:"table:horses,alias:h"`

	HorseID      int              `bun:"horse_id,pk,autoincrement" json:"horseID"`
	RaceID       int              `bun:"race_id,notnull" json:"raceID"`
	Number       int              `bun:"number,notnull" json:"number"`
	Name         *string          `bun:"name" json:"name,omitempty"`
	ArrivalOrder *int             `bun:"arrival_order" json:"arrivalOrder,omitempty"`
	Odds         *decimal.Decimal `bun:"odds,type:numeric" json:"odds,omitempty"`
	Jockey       *string          `bun:"jockey" json:"jockey,omitempty"`
	Trainer      *string          `bun:"trainer" json:"trainer,omitempty"`
	RecentForm   *string          `bun:"recent_form" json:"recentForm,omitempty"`
	Blinkers     bool             `bun:"blinkers,notnull,default:false" json:"blinkers"`
	FirstTime    bool             `bun:"first_time,notnull,default:false" json:"firstTime"`
	Age          *int             `bun:"age" json:"age,omitempty"`
	Sex          *string          `bun:"sex" json:"sex,omitempty"`
	CareerRaces  *int             `bun:"career_races" json:"careerRaces,omitempty"`
	CareerWins   *int             `bun:"career_wins" json:"careerWins,omitempty"`

	Race *Race `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
}
