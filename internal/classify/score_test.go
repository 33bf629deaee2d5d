// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "testing"

func TestScoreEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  float64
	}{
		{"missing email is indeterminate", "", 0},
		{"no @ is indeterminate", "not-an-email", 0},
		{"trailing @ is indeterminate", "broken@", 0},
		{"edu is academic", "x@stanford.edu", -1},
		{"country-coded academic domain", "x@imperial.ac.uk", -1},
		{"gov is academic", "x@nih.gov", -1},
		{"org resolves toward academic", "x@whitehead.org", -1},
		{"com is industry", "x@pfizer.com", 1},
		{"biz is industry", "x@cro.biz", 1},
		{"country-coded commercial domain", "x@astrazeneca.co.uk", 1},
		{"unknown tld is indeterminate", "x@lab.io", 0},
		{"academic wins over industry suffix", "x@research.ac.com", -1},
		{"case insensitive", "X@PFIZER.COM", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreEmail(tt.email); got != tt.want {
				t.Errorf("scoreEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestScoreAffiliation(t *testing.T) {
	tests := []struct {
		name        string
		affiliation string
		wantScore   float64
		wantCompany string
	}{
		{"empty is indeterminate", "", 0, ""},
		{"whitespace only is indeterminate", "   ", 0, ""},
		{"purely academic", "Harvard Medical School", -1, ""},
		{"multiple academic keywords", "Department of Biology, Stanford University", -1, ""},
		{"purely industry keywords", "Acme Therapeutics Ltd", 1, ""},
		{"mixed language balances out", "Stanford University, Inc. Research Division", 0, ""},
		{"company match is authoritative", "Roche Pharmaceuticals, Basel", 1, "Roche"},
		{"company match inside academic text", "Pfizer fellow, University of Oxford", 1, "Pfizer"},
		{"company match is case insensitive", "PFIZER INC, NY", 1, "Pfizer"},
		{"no keywords at all", "Rural health outreach program", 0, ""},
		{"short token needs word boundary", "Clinical Agency of Chicago", 0, ""},
		{"unicode text does not trip the scorer", "Universidad Autónoma de México, facultad de ciencias", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, company := scoreAffiliation(tt.affiliation)
			if score != tt.wantScore {
				t.Errorf("scoreAffiliation(%q) score = %v, want %v", tt.affiliation, score, tt.wantScore)
			}
			if company != tt.wantCompany {
				t.Errorf("scoreAffiliation(%q) company = %q, want %q", tt.affiliation, company, tt.wantCompany)
			}
		})
	}
}

func TestScoreAffiliationBounds(t *testing.T) {
	// Stacking keywords must not push the score outside [-1, 1].
	score, _ := scoreAffiliation("pharmaceutical biotech therapeutics biosciences r&d company inc ltd llc corp gmbh plc")
	if score != 1 {
		t.Errorf("all-industry score = %v, want 1", score)
	}
	score, _ = scoreAffiliation("university college institute department school hospital laboratory faculty academy medical center")
	if score != -1 {
		t.Errorf("all-academic score = %v, want -1", score)
	}
}

func TestMatchCompanyPrefersSpecificName(t *testing.T) {
	if got := matchCompany("glaxosmithkline (gsk), brentford"); got != "GlaxoSmithKline" {
		t.Errorf("matchCompany = %q, want GlaxoSmithKline", got)
	}
}

func TestKeywordCountedOncePerAffiliation(t *testing.T) {
	// Repetition must not weigh more than presence.
	single, _ := scoreAffiliation("biotech division")
	repeated, _ := scoreAffiliation("biotech biotech biotech division")
	if single != repeated {
		t.Errorf("repeated keyword changed score: %v vs %v", single, repeated)
	}
}
