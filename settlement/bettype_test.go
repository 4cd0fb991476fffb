package settlement

import (
	"strings"
	"testing"
)

// Every alias the table knows must resolve, case-insensitively, and carry a
// report family. This is the guard against a new alias being added half-way.
func TestFamilyFor_AllKnownAliases(t *testing.T) {
	for _, alias := range KnownAliases() {
		fam, ok := FamilyFor(alias)
		if !ok {
			t.Errorf("alias %q did not resolve", alias)
			continue
		}
		if fam.Code == "" || fam.Report == "" {
			t.Errorf("alias %q resolved to incomplete family %+v", alias, fam)
		}
		if _, ok := FamilyFor(strings.ToUpper(alias)); !ok {
			t.Errorf("alias %q not case-insensitive", alias)
		}
		if _, ok := FamilyFor("  " + alias + " "); !ok {
			t.Errorf("alias %q not whitespace-tolerant", alias)
		}
	}
}

// Ordered families pay only the exact finish sequence, so their lookup key
// must reflect the arrival order rather than the ascending sort.
func TestFamilyFor_OrderedKeyMatchesOrdreAliases(t *testing.T) {
	for _, alias := range KnownAliases() {
		fam, _ := FamilyFor(alias)
		wantOrdered := strings.Contains(alias, "ordre") && !strings.Contains(alias, "desordre")
		if fam.OrderedKey != wantOrdered {
			t.Errorf("alias %q: OrderedKey = %v, want %v", alias, fam.OrderedKey, wantOrdered)
		}
	}
}

func TestFamilyFor_Unknown(t *testing.T) {
	if _, ok := FamilyFor("exotic_new_type"); ok {
		t.Error("unmapped alias must not resolve")
	}
	if _, ok := FamilyFor(""); ok {
		t.Error("empty alias must not resolve")
	}
}

func TestFamilyFor_SharedFamilies(t *testing.T) {
	a, _ := FamilyFor("couple")
	b, _ := FamilyFor("couple_gagnant")
	if a.Code != b.Code {
		t.Errorf("couple and couple_gagnant should share a family: %q vs %q", a.Code, b.Code)
	}
	tierce, _ := FamilyFor("tierce")
	tierceOrdre, _ := FamilyFor("tierce_ordre")
	if tierce.Report != tierceOrdre.Report {
		t.Errorf("tierce ordre/desordre should share the report table: %q vs %q", tierce.Report, tierceOrdre.Report)
	}
}
