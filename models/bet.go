package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Bet statuses. A bet only moves pending → won/lost through the settler;
// refunded is a manual path. Once non-pending, odds/payout/profit are
// immutable inputs to reporting.
const (
	BetStatusPending  = "pending"
	BetStatusWon      = "won"
	BetStatusLost     = "lost"
	BetStatusRefunded = "refunded"
)

// PlatformPMU is the only platform settled automatically; everything else
// is flagged for a manual user update once its race time has passed.
const PlatformPMU = "pmu"

// Bet is a user-submitted wager. HorsesSelected is free text: comma
// separated entries where only the leading digits of each entry matter
// ("7 - Ex Machina" selects 7). RaceID is null for manual, non-PMU bets;
// those carry EventAt so the manual-update reminder still fires.
type Bet struct {
	bun.BaseModel `bun:"table:bets,alias:b"`

	BetID          int              `bun:"bet_id,pk,autoincrement" json:"betID"`
	UserID         int              `bun:"user_id,notnull" json:"userID"`
	RaceID         *int             `bun:"race_id" json:"raceID,omitempty"`
	Platform       string           `bun:"platform,notnull,default:'pmu'" json:"platform"`
	BetType        string           `bun:"bet_type,notnull" json:"betType"`
	HorsesSelected string           `bun:"horses_selected,notnull" json:"horsesSelected"`
	Stake          decimal.Decimal  `bun:"stake,notnull,type:numeric" json:"stake"`
	Status         string           `bun:"status,notnull,default:'pending'" json:"status"`
	Odds           *decimal.Decimal `bun:"odds,type:numeric" json:"odds,omitempty"`
	Payout         *decimal.Decimal `bun:"payout,type:numeric" json:"payout,omitempty"`
	Profit         *decimal.Decimal `bun:"profit,type:numeric" json:"profit,omitempty"`
	EventAt        *time.Time       `bun:"event_at" json:"eventAt,omitempty"`
	NotifiedManual bool             `bun:"notified_manual,notnull,default:false" json:"notifiedManual"`
	CreatedAt      time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Race *Race `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}
