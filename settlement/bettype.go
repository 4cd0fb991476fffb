// Package settlement decides whether stored bets won or lost against
// official arrival results and resolves the payout dividend from a race's
// settlement reports.
package settlement

import "strings"

// Canonical report family codes as published in the upstream
// "rapports définitifs".
const (
	ReportSimpleGagnant = "SIMPLE_GAGNANT"
	ReportSimplePlace   = "SIMPLE_PLACE"
	ReportCoupleGagnant = "COUPLE_GAGNANT"
	ReportCouplePlace   = "COUPLE_PLACE"
	ReportCoupleOrdre   = "COUPLE_ORDRE"
	ReportTrio          = "TRIO"
	ReportTrioOrdre     = "TRIO_ORDRE"
	ReportTierce        = "TIERCE"
	ReportQuartePlus    = "QUARTE_PLUS"
	ReportQuintePlus    = "QUINTE_PLUS"
	ReportMulti         = "MULTI"
	ReportPick5         = "PICK5"
	ReportDeuxSurQuatre = "DEUX_SUR_QUATRE"
)

// winRule is the settlement semantics of a bet family.
type winRule int

const (
	ruleWin        winRule = iota // the single selection finishes first
	rulePlace                     // the single selection finishes in the top 3
	ruleWinOrPlace                // either branch, each checked independently
	ruleSetTop                    // selections are exactly the top-Picks set, any order
	ruleAllInTop                  // every selection finishes within the top Top
	ruleCoverTop                  // the top Top finishers are all among the selections
	ruleExactOrder                // selections equal the finish order 1..Picks
)

// Family describes how one canonical bet family settles and pays.
// OrderedKey families pay only the exact finish sequence, so their payout
// lookup key reflects the actual arrival order of the selected horses;
// all other families use the ascending sort of the selection.
type Family struct {
	Code       string // canonical family code
	Report     string // report family used for the payout lookup
	Rule       winRule
	Picks      int // required selection count, 0 = variable
	Top        int // finisher window for ruleAllInTop / ruleCoverTop
	OrderedKey bool
}

// aliasTable maps every user-facing bet-type alias (lowercased) to its
// family. This is data, not branching code: new aliases are added here and
// unmapped input resolves to ok=false rather than a silent default.
var aliasTable = map[string]Family{
	"gagnant":          famGagnant,
	"simple_gagnant":   famGagnant,
	"e_simple_gagnant": famGagnant,

	"place":          famPlace,
	"simple_place":   famPlace,
	"e_simple_place": famPlace,

	"gagnant_place":        famGagnantPlace,
	"simple_gagnant_place": famGagnantPlace,

	"couple":           famCouple,
	"couple_gagnant":   famCouple,
	"e_couple_gagnant": famCouple,

	"couple_place":   famCouplePlace,
	"e_couple_place": famCouplePlace,

	"couple_ordre":   famCoupleOrdre,
	"e_couple_ordre": famCoupleOrdre,

	"trio":   famTrio,
	"e_trio": famTrio,

	"trio_ordre":   famTrioOrdre,
	"e_trio_ordre": famTrioOrdre,

	"tierce":          famTierce,
	"tierce_desordre": famTierce,
	"tierce_ordre":    famTierceOrdre,

	"quarte":          famQuarte,
	"quarte_plus":     famQuarte,
	"quarte_desordre": famQuarte,
	"quarte_bonus":    famQuarte,
	"quarte_ordre":    famQuarteOrdre,

	"quinte":          famQuinte,
	"quinte_plus":     famQuinte,
	"quinte_desordre": famQuinte,
	"quinte_bonus_4":  famQuinte,
	"quinte_bonus_3":  famQuinte,
	"quinte_ordre":    famQuinteOrdre,

	"multi":   famMulti,
	"multi_4": famMulti,
	"multi_5": famMulti,
	"multi_6": famMulti,
	"multi_7": famMulti,

	"pick5":  famPick5,
	"pick_5": famPick5,

	"2sur4":           famDeuxSurQuatre,
	"2_sur_4":         famDeuxSurQuatre,
	"deux_sur_quatre": famDeuxSurQuatre,
}

var (
	famGagnant      = Family{Code: "GAGNANT", Report: ReportSimpleGagnant, Rule: ruleWin, Picks: 1}
	famPlace        = Family{Code: "PLACE", Report: ReportSimplePlace, Rule: rulePlace, Picks: 1}
	famGagnantPlace = Family{Code: "GAGNANT_PLACE", Report: ReportSimpleGagnant, Rule: ruleWinOrPlace, Picks: 1}
	famCouple       = Family{Code: "COUPLE", Report: ReportCoupleGagnant, Rule: ruleSetTop, Picks: 2}
	famCouplePlace  = Family{Code: "COUPLE_PLACE", Report: ReportCouplePlace, Rule: ruleAllInTop, Picks: 2, Top: 3}
	famCoupleOrdre  = Family{Code: "COUPLE_ORDRE", Report: ReportCoupleOrdre, Rule: ruleExactOrder, Picks: 2, OrderedKey: true}
	famTrio         = Family{Code: "TRIO", Report: ReportTrio, Rule: ruleSetTop, Picks: 3}
	famTrioOrdre    = Family{Code: "TRIO_ORDRE", Report: ReportTrioOrdre, Rule: ruleExactOrder, Picks: 3, OrderedKey: true}
	famTierce       = Family{Code: "TIERCE", Report: ReportTierce, Rule: ruleSetTop, Picks: 3}
	famTierceOrdre  = Family{Code: "TIERCE_ORDRE", Report: ReportTierce, Rule: ruleExactOrder, Picks: 3, OrderedKey: true}
	famQuarte       = Family{Code: "QUARTE", Report: ReportQuartePlus, Rule: ruleSetTop, Picks: 4}
	famQuarteOrdre  = Family{Code: "QUARTE_ORDRE", Report: ReportQuartePlus, Rule: ruleExactOrder, Picks: 4, OrderedKey: true}
	famQuinte       = Family{Code: "QUINTE", Report: ReportQuintePlus, Rule: ruleSetTop, Picks: 5}
	famQuinteOrdre  = Family{Code: "QUINTE_ORDRE", Report: ReportQuintePlus, Rule: ruleExactOrder, Picks: 5, OrderedKey: true}
	famMulti        = Family{Code: "MULTI", Report: ReportMulti, Rule: ruleCoverTop, Top: 4}
	famPick5        = Family{Code: "PICK5", Report: ReportPick5, Rule: ruleSetTop, Picks: 5}

	famDeuxSurQuatre = Family{Code: "DEUX_SUR_QUATRE", Report: ReportDeuxSurQuatre, Rule: ruleAllInTop, Picks: 2, Top: 4}
)

// FamilyFor resolves a bet-type alias, case-insensitively, to its family.
// ok is false for aliases the table does not know.
func FamilyFor(alias string) (Family, bool) {
	f, ok := aliasTable[strings.ToLower(strings.TrimSpace(alias))]
	return f, ok
}

// KnownAliases returns every alias the table maps, for exhaustive tests.
func KnownAliases() []string {
	out := make([]string, 0, len(aliasTable))
	for a := range aliasTable {
		out = append(out, a)
	}
	return out
}
