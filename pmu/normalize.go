package pmu

import (
	"time"

	"github.com/turfnote/turfapi/models"
)

// Program is the canonical shape of one day's upstream race program.
type Program struct {
	Meetings []Meeting `json:"meetings"`
}

// Meeting is a réunion: one venue's card of races for the day.
type Meeting struct {
	Number     int           `json:"number"`
	Hippodrome Hippodrome    `json:"hippodrome"`
	Races      []ProgramRace `json:"races"`
}

// Hippodrome identifies a venue.
type Hippodrome struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// ProgramRace is one race as listed in the program.
type ProgramRace struct {
	Number     int        `json:"number"`
	Name       *string    `json:"name"`
	StartTime  *time.Time `json:"startTime"`
	Discipline *string    `json:"discipline"`
	Prize      *int       `json:"prize"`
	Distance   *int       `json:"distance"`
}

// RaceDetails is the post-race course detail: the finish-confirmed flag and
// the official arrival order as horse numbers, winner first.
type RaceDetails struct {
	ArriveeDefinitive bool  `json:"arriveeDefinitive"`
	FinishOrder       []int `json:"finishOrder"`
}

// Upstream field names shift between French and English across endpoints
// and keys go missing entirely, so every getter below takes a list of
// aliases and tolerates absent keys and wrong types.

func rawMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func rawList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if l, ok := m[k].([]any); ok {
			return l
		}
	}
	return nil
}

func rawStr(m map[string]any, keys ...string) *string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

func rawInt(m map[string]any, keys ...string) *int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			n := int(v)
			return &n
		case int:
			n := v
			return &n
		}
	}
	return nil
}

func rawFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}

func rawBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

// NormalizeParticipants maps a raw participants payload into canonical
// horses. A missing "participants" container yields an empty slice, never an
// error; entries without a usable number are dropped.
func NormalizeParticipants(raw map[string]any) []models.Horse {
	horses := []models.Horse{}
	for _, item := range rawList(raw, "participants") {
		p := rawMap(item)
		if p == nil {
			continue
		}
		num := rawInt(p, "numPmu", "number")
		if num == nil || *num <= 0 {
			continue
		}

		h := models.Horse{
			Number:       *num,
			Name:         rawStr(p, "nom", "name"),
			ArrivalOrder: rawInt(p, "ordreArrivee", "arrivalOrder"),
			Jockey:       rawStr(p, "driver", "jockey"),
			Trainer:      rawStr(p, "entraineur", "nomEntraineur", "trainer"),
			RecentForm:   rawStr(p, "musique", "recentForm"),
			FirstTime:    rawBool(p, "indicateurInedit", "firstTime"),
			Age:          rawInt(p, "age"),
			Sex:          rawStr(p, "sexe", "sex"),
			CareerRaces:  rawInt(p, "nombreCourses", "careerRaces"),
			CareerWins:   rawInt(p, "nombreVictoires", "careerWins"),
		}
		if ao := h.ArrivalOrder; ao != nil && *ao <= 0 {
			h.ArrivalOrder = nil
		}
		if o := rawStr(p, "oeilleres", "blinkers"); o != nil && *o != "SANS_OEILLERES" {
			h.Blinkers = true
		}
		horses = append(horses, h)
	}
	return horses
}

// NormalizeProgram maps a raw program payload into the canonical Program.
// A structurally empty payload yields an empty Program.
func NormalizeProgram(raw map[string]any) Program {
	prog := Program{Meetings: []Meeting{}}
	programme := rawMap(raw["programme"])
	if programme == nil {
		// Some mirrors return the reunions list at the top level.
		programme = raw
	}
	for _, item := range rawList(programme, "reunions", "meetings") {
		r := rawMap(item)
		if r == nil {
			continue
		}
		num := rawInt(r, "numOfficiel", "number")
		if num == nil {
			continue
		}
		m := Meeting{Number: *num, Races: []ProgramRace{}}
		if hip := rawMap(r["hippodrome"]); hip != nil {
			if s := rawStr(hip, "code"); s != nil {
				m.Hippodrome.Code = *s
			}
			if s := rawStr(hip, "libelleCourt", "name"); s != nil {
				m.Hippodrome.Name = *s
			}
			if s := rawStr(hip, "libelleLong", "fullName"); s != nil {
				m.Hippodrome.FullName = *s
			}
		}
		for _, ci := range rawList(r, "courses", "races") {
			c := rawMap(ci)
			if c == nil {
				continue
			}
			cnum := rawInt(c, "numOrdre", "numExterne", "number")
			if cnum == nil {
				continue
			}
			pr := ProgramRace{
				Number:     *cnum,
				Name:       rawStr(c, "libelle", "name"),
				Discipline: rawStr(c, "discipline", "specialite"),
				Prize:      rawInt(c, "montantPrix", "prize"),
				Distance:   rawInt(c, "distance"),
			}
			if ms, ok := rawFloat(c, "heureDepart", "startTime"); ok {
				t := time.UnixMilli(int64(ms)).UTC()
				pr.StartTime = &t
			}
			m.Races = append(m.Races, pr)
		}
		prog.Meetings = append(prog.Meetings, m)
	}
	return prog
}

// NormalizeRaceDetails maps a raw course-detail payload. The arrival order
// arrives as a nested list (dead heats group numbers) and is flattened to a
// dense winner-first sequence of horse numbers.
func NormalizeRaceDetails(raw map[string]any) *RaceDetails {
	if raw == nil {
		return nil
	}
	d := &RaceDetails{
		ArriveeDefinitive: rawBool(raw, "arriveeDefinitive", "arrivalFinal"),
	}
	for _, item := range rawList(raw, "ordreArrivee", "arrivalOrder") {
		switch v := item.(type) {
		case float64:
			d.FinishOrder = append(d.FinishOrder, int(v))
		case []any:
			for _, inner := range v {
				if f, ok := inner.(float64); ok {
					d.FinishOrder = append(d.FinishOrder, int(f))
				}
			}
		}
	}
	if len(d.FinishOrder) > 0 {
		d.ArriveeDefinitive = true
	}
	return d
}

// NormalizeReports maps raw "rapports définitifs" entries into canonical
// reports for one race. Duplicate combinations within one report keep the
// first occurrence. Dividends stay in cents here; conversion to currency
// units happens at lookup and when applying horse odds.
func NormalizeReports(raceID int, raw []map[string]any) []models.Report {
	reports := []models.Report{}
	for _, entry := range raw {
		if entry == nil {
			continue
		}
		betType := rawStr(entry, "typePari", "betType")
		if betType == nil {
			continue
		}
		rep := models.Report{
			RaceID:    raceID,
			BetType:   *betType,
			BetFamily: rawStr(entry, "famillePari", "betFamily"),
			BaseStake: rawInt(entry, "miseBase", "baseStake"),
			Refunded:  rawBool(entry, "rembourse", "refunded"),
		}

		seen := map[string]bool{}
		lines := []models.ReportLine{}
		for _, li := range rawList(entry, "rapports", "reports") {
			l := rawMap(li)
			if l == nil {
				continue
			}
			comb := rawStr(l, "combinaison", "combination")
			if comb == nil || seen[*comb] {
				continue
			}
			div, ok := rawFloat(l, "dividendePourUnEuro", "dividende", "dividend")
			if !ok {
				continue
			}
			seen[*comb] = true
			lines = append(lines, models.ReportLine{
				Combination:   *comb,
				DividendCents: int64(div),
			})
		}
		rep.Lines = models.EncodeLines(lines)
		reports = append(reports, rep)
	}
	return reports
}
