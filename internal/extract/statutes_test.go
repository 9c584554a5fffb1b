package extract

import (
	"strings"
	"testing"
)

func TestCaliforniaCodeCitation(t *testing.T) {
	t.Parallel()

	statutes := Statutes("in violation of the Business and Professions Code section 17200")
	if len(statutes) == 0 {
		t.Fatal("expected at least one citation")
	}
	found := false
	for _, s := range statutes {
		if strings.Contains(s.Raw, "Business and Professions") {
			found = true
			if !s.IsState {
				t.Fatal("Business and Professions Code is a state statute")
			}
		}
	}
	if !found {
		t.Fatal("expected a Business and Professions Code citation")
	}
}

func TestUSCCitation(t *testing.T) {
	t.Parallel()

	statutes := Statutes("pursuant to 15 U.S.C. § 45 and related regulations")
	if len(statutes) == 0 {
		t.Fatal("expected at least one citation")
	}
	if !statutes[0].IsFederal {
		t.Fatal("U.S.C. citations are federal")
	}
}

func TestCCPACommonName(t *testing.T) {
	t.Parallel()

	statutes := Statutes("violated the CCPA by failing to honor opt-out requests")
	if len(statutes) == 0 {
		t.Fatal("expected at least one citation")
	}
	found := false
	for _, s := range statutes {
		if s.CommonName == "CCPA" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the CCPA common name")
	}
}

func TestFalseClaimsAct(t *testing.T) {
	t.Parallel()

	statutes := Statutes("in violation of the False Claims Act")
	if len(statutes) == 0 {
		t.Fatal("expected at least one citation")
	}
	found := false
	for _, s := range statutes {
		if strings.Contains(s.Raw, "False Claims Act") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a False Claims Act citation")
	}
}

func TestDuplicateCitationsCollapsed(t *testing.T) {
	t.Parallel()

	statutes := Statutes("The CCPA applies here. Again, the CCPA governs this conduct.")
	count := 0
	for _, s := range statutes {
		if s.Raw == "CCPA" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d CCPA citations, want 1", count)
	}
}

func TestNoStatutes(t *testing.T) {
	t.Parallel()

	if statutes := Statutes("The company agreed to improve its practices."); len(statutes) != 0 {
		t.Fatalf("got %d citations, want 0", len(statutes))
	}
}
