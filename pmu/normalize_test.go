package pmu

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestNormalizeParticipants_FrenchFields(t *testing.T) {
	raw := decode(t, `{"participants":[
		{"numPmu":7,"nom":"Ex Machina","ordreArrivee":1,"driver":"M. Abrivard","entraineur":"L. Abrivard","musique":"1a2a3a","oeilleres":"OEILLERES_CLASSIQUE","age":5,"sexe":"HONGRES","nombreCourses":42,"nombreVictoires":9},
		{"numPmu":3,"nom":"Galopin"}
	]}`)

	horses := NormalizeParticipants(raw)
	if len(horses) != 2 {
		t.Fatalf("len = %d, want 2", len(horses))
	}

	h := horses[0]
	if h.Number != 7 || h.Name == nil || *h.Name != "Ex Machina" {
		t.Errorf("number/name = %d/%v", h.Number, h.Name)
	}
	if h.ArrivalOrder == nil || *h.ArrivalOrder != 1 {
		t.Errorf("arrivalOrder = %v, want 1", h.ArrivalOrder)
	}
	if h.Jockey == nil || *h.Jockey != "M. Abrivard" {
		t.Errorf("jockey = %v", h.Jockey)
	}
	if h.Trainer == nil || *h.Trainer != "L. Abrivard" {
		t.Errorf("trainer = %v", h.Trainer)
	}
	if !h.Blinkers {
		t.Error("blinkers should be true for OEILLERES_CLASSIQUE")
	}

	// Sparse entry: absent keys default to null, never crash.
	g := horses[1]
	if g.ArrivalOrder != nil || g.Jockey != nil || g.Blinkers {
		t.Errorf("sparse participant got defaults filled: %+v", g)
	}
}

func TestNormalizeParticipants_EnglishAliases(t *testing.T) {
	raw := decode(t, `{"participants":[
		{"number":4,"name":"Storm","arrivalOrder":2,"jockey":"J. Doe","trainer":"T. Roe"}
	]}`)

	horses := NormalizeParticipants(raw)
	if len(horses) != 1 {
		t.Fatalf("len = %d, want 1", len(horses))
	}
	h := horses[0]
	if h.Number != 4 || h.ArrivalOrder == nil || *h.ArrivalOrder != 2 {
		t.Errorf("aliased fields not mapped: %+v", h)
	}
}

func TestNormalizeParticipants_MissingContainer(t *testing.T) {
	if got := NormalizeParticipants(decode(t, `{"cached":true}`)); len(got) != 0 {
		t.Errorf("missing participants key should yield empty, got %d", len(got))
	}
	if got := NormalizeParticipants(decode(t, `{"participants":[{"nom":"sans numero"}]}`)); len(got) != 0 {
		t.Errorf("participant without number should be dropped, got %d", len(got))
	}
}

func TestNormalizeProgram(t *testing.T) {
	raw := decode(t, `{"programme":{"reunions":[
		{"numOfficiel":1,
		 "hippodrome":{"code":"VIN","libelleCourt":"VINCENNES","libelleLong":"HIPPODROME DE VINCENNES"},
		 "courses":[
			{"numOrdre":3,"libelle":"PRIX DE LILLE","heureDepart":1735646700000,"discipline":"ATTELE","montantPrix":54000,"distance":2700},
			{"numOrdre":4}
		 ]}
	]}}`)

	prog := NormalizeProgram(raw)
	if len(prog.Meetings) != 1 {
		t.Fatalf("meetings = %d, want 1", len(prog.Meetings))
	}
	m := prog.Meetings[0]
	if m.Number != 1 || m.Hippodrome.Code != "VIN" || m.Hippodrome.Name != "VINCENNES" {
		t.Errorf("meeting = %+v", m)
	}
	if len(m.Races) != 2 {
		t.Fatalf("races = %d, want 2", len(m.Races))
	}
	r := m.Races[0]
	if r.Number != 3 || r.Name == nil || *r.Name != "PRIX DE LILLE" {
		t.Errorf("race = %+v", r)
	}
	if r.StartTime == nil || r.StartTime.UnixMilli() != 1735646700000 {
		t.Errorf("startTime = %v", r.StartTime)
	}
	if r.Prize == nil || *r.Prize != 54000 {
		t.Errorf("prize = %v", r.Prize)
	}
	// The bare second course still normalizes with nulls.
	if m.Races[1].Number != 4 || m.Races[1].Name != nil {
		t.Errorf("sparse race = %+v", m.Races[1])
	}
}

func TestNormalizeProgram_Empty(t *testing.T) {
	prog := NormalizeProgram(decode(t, `{}`))
	if len(prog.Meetings) != 0 {
		t.Errorf("empty payload should yield no meetings, got %d", len(prog.Meetings))
	}
}

func TestNormalizeRaceDetails_FlattensDeadHeats(t *testing.T) {
	raw := decode(t, `{"arriveeDefinitive":true,"ordreArrivee":[[7],[3,5],[9]]}`)

	d := NormalizeRaceDetails(raw)
	if d == nil || !d.ArriveeDefinitive {
		t.Fatalf("details = %+v", d)
	}
	want := []int{7, 3, 5, 9}
	if len(d.FinishOrder) != len(want) {
		t.Fatalf("finishOrder = %v, want %v", d.FinishOrder, want)
	}
	for i := range want {
		if d.FinishOrder[i] != want[i] {
			t.Fatalf("finishOrder = %v, want %v", d.FinishOrder, want)
		}
	}
}

func TestNormalizeReports(t *testing.T) {
	entries := []map[string]any{
		decode(t, `{"typePari":"SIMPLE_GAGNANT","famillePari":"SIMPLE","miseBase":100,
			"rapports":[{"combinaison":"7","dividendePourUnEuro":350},
			            {"combinaison":"7","dividendePourUnEuro":999}]}`),
		decode(t, `{"typePari":"COUPLE_ORDRE","rembourse":true,
			"rapports":[{"combinaison":"2-9","dividendePourUnEuro":4810}]}`),
		decode(t, `{"rapports":[{"combinaison":"1","dividendePourUnEuro":100}]}`),
	}

	reports := NormalizeReports(12, entries)
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2 (typeless entry dropped)", len(reports))
	}

	simple := reports[0]
	if simple.RaceID != 12 || simple.BetType != "SIMPLE_GAGNANT" {
		t.Errorf("report = %+v", simple)
	}
	if simple.BaseStake == nil || *simple.BaseStake != 100 {
		t.Errorf("baseStake = %v", simple.BaseStake)
	}
	lines := simple.DecodeLines()
	if len(lines) != 1 {
		t.Fatalf("duplicate combination kept: %v", lines)
	}
	if lines[0].Combination != "7" || lines[0].DividendCents != 350 {
		t.Errorf("line = %+v, first occurrence must win", lines[0])
	}

	if !reports[1].Refunded {
		t.Error("rembourse flag not mapped")
	}
}

func TestNormalizeReports_Nil(t *testing.T) {
	if got := NormalizeReports(1, nil); len(got) != 0 {
		t.Errorf("nil payload should yield no reports, got %d", len(got))
	}
}
