// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/pdiddy/paper-scout/pkg/types"
)

func defaultClassifier() *Classifier {
	return New(types.ClassifierConfig{}, nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassifyAuthorDeterminism(t *testing.T) {
	c := defaultClassifier()
	author := types.Author{
		LastName:    "Smith",
		FirstName:   "Jane",
		Email:       "jane.smith@pfizer.com",
		Affiliation: "Pfizer Inc, New York, NY",
	}

	first := c.ClassifyAuthor(author)
	second := c.ClassifyAuthor(author)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification is not deterministic: %+v vs %+v", first, second)
	}
}

func TestIndustryEmailDominates(t *testing.T) {
	c := defaultClassifier()
	got := c.ClassifyAuthor(types.Author{LastName: "X", Email: "x@pfizer.com"})

	if !got.IsIndustry {
		t.Error("industry email with no affiliation should classify as industry")
	}
	if !almostEqual(got.CombinedScore, 0.7) {
		t.Errorf("combined score = %v, want 0.7", got.CombinedScore)
	}
	if got.MatchedCompany != "" {
		t.Errorf("matched company = %q, want empty (email alone never names a company)", got.MatchedCompany)
	}
}

func TestAcademicEmailOverridesAmbiguousAffiliation(t *testing.T) {
	c := defaultClassifier()
	got := c.ClassifyAuthor(types.Author{
		LastName:    "X",
		Email:       "x@stanford.edu",
		Affiliation: "Stanford University, Inc. Research Division",
	})

	if got.IsIndustry {
		t.Error("academic email should outweigh a stray industry token")
	}
	if !almostEqual(got.CombinedScore, -0.7) {
		t.Errorf("combined score = %v, want -0.7", got.CombinedScore)
	}
}

func TestCompanyMatchForcesIndustryLabel(t *testing.T) {
	// With no email signal the weighted sum is 0.3, below the threshold.
	// The company match still decides the label.
	c := defaultClassifier()
	got := c.ClassifyAuthor(types.Author{
		LastName:    "X",
		Affiliation: "Roche Pharmaceuticals, Basel",
	})

	if got.MatchedCompany != "Roche" {
		t.Errorf("matched company = %q, want Roche", got.MatchedCompany)
	}
	if !got.IsIndustry {
		t.Error("company match should force the industry label")
	}
	if !almostEqual(got.CombinedScore, 0.3) {
		t.Errorf("combined score = %v, want 0.3", got.CombinedScore)
	}
}

func TestMalformedAuthorsDegradeToIndeterminate(t *testing.T) {
	c := defaultClassifier()
	tests := []struct {
		name   string
		author types.Author
	}{
		{"empty record", types.Author{}},
		{"garbled email", types.Author{Email: "@@@"}},
		{"unicode affiliation", types.Author{Affiliation: "研究所 東京 🧬"}},
		{"whitespace email", types.Author{Email: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyAuthor(tt.author)
			if got.IsIndustry {
				t.Errorf("malformed input classified as industry: %+v", got)
			}
		})
	}
}

func TestConfiguredWeightsAndThreshold(t *testing.T) {
	c := New(types.ClassifierConfig{
		EmailWeight:       0.5,
		AffiliationWeight: 0.5,
		IndustryThreshold: 0.4,
	}, nil)

	got := c.ClassifyAuthor(types.Author{Email: "x@cro.biz"})
	if !almostEqual(got.CombinedScore, 0.5) {
		t.Errorf("combined score = %v, want 0.5 with custom weights", got.CombinedScore)
	}
	if !got.IsIndustry {
		t.Error("score 0.5 should exceed custom threshold 0.4")
	}
}

func TestPartialWeightOverrideKeepsOtherDefault(t *testing.T) {
	// Overriding one weight must not zero out the other signal.
	c := New(types.ClassifierConfig{EmailWeight: 0.5}, nil)

	got := c.ClassifyAuthor(types.Author{
		LastName:    "X",
		Email:       "x@cro.biz",
		Affiliation: "Acme Therapeutics Ltd",
	})
	// 0.5 (custom email weight) + 0.3 (default affiliation weight).
	if !almostEqual(got.CombinedScore, 0.8) {
		t.Errorf("combined score = %v, want 0.8", got.CombinedScore)
	}
}

func TestZeroAuthorPaper(t *testing.T) {
	c := defaultClassifier()
	got := c.ClassifyPaper(types.Paper{PubmedID: "1", Title: "Empty"})

	if got.HasIndustryAuthor {
		t.Error("paper with no authors must not have industry authors")
	}
	if len(got.Companies) != 0 {
		t.Errorf("companies = %v, want empty", got.Companies)
	}
}

func TestClassifyPaperPreservesAuthorOrder(t *testing.T) {
	c := defaultClassifier()
	paper := types.Paper{
		PubmedID: "2",
		Authors: []types.Author{
			{LastName: "First", Email: "a@moderna.com", Affiliation: "Moderna, Cambridge MA"},
			{LastName: "Middle", Email: "m@harvard.edu", Affiliation: "Harvard Medical School"},
			{LastName: "Last", Email: "z@biontech.com", Affiliation: "BioNTech, Mainz"},
		},
	}

	got := c.ClassifyPaper(paper)
	if len(got.IndustryAuthors) != 2 {
		t.Fatalf("industry authors = %d, want 2", len(got.IndustryAuthors))
	}
	if got.IndustryAuthors[0].Author.LastName != "First" || got.IndustryAuthors[1].Author.LastName != "Last" {
		t.Errorf("author order not preserved: %v", got.IndustryAuthors)
	}
	if !reflect.DeepEqual(got.Companies, []string{"Moderna", "BioNTech"}) {
		t.Errorf("companies = %v, want first-seen order [Moderna BioNTech]", got.Companies)
	}
}

func TestEndToEndDrugTrialScenario(t *testing.T) {
	c := defaultClassifier()
	paper := types.Paper{
		PubmedID: "12345",
		Title:    "Drug X Trial",
		Authors: []types.Author{
			{LastName: "One", FirstName: "Author", Email: "a@pfizer.com", Affiliation: "Pfizer Inc, NY"},
			{LastName: "Two", FirstName: "Author", Email: "b@harvard.edu", Affiliation: "Harvard Medical School"},
		},
	}

	got := c.ClassifyPaper(paper)
	if !got.HasIndustryAuthor {
		t.Fatal("expected at least one industry author")
	}
	if len(got.IndustryAuthors) != 1 || got.IndustryAuthors[0].Author.LastName != "One" {
		t.Errorf("industry authors = %+v, want only author One", got.IndustryAuthors)
	}
	if !reflect.DeepEqual(got.Companies, []string{"Pfizer"}) {
		t.Errorf("companies = %v, want [Pfizer]", got.Companies)
	}
}

func TestSummarizeCounts(t *testing.T) {
	c := defaultClassifier()
	papers := []types.Paper{
		{
			PubmedID: "1",
			Authors: []types.Author{
				{LastName: "A", Email: "a@pfizer.com", Affiliation: "Pfizer Inc"},
				{LastName: "B", Email: "b@pfizer.com", Affiliation: "Pfizer Inc"},
			},
		},
		{
			PubmedID: "2",
			Authors: []types.Author{
				{LastName: "C", Email: "c@mit.edu", Affiliation: "MIT Department of Biology"},
			},
		},
		{
			PubmedID: "3",
			Authors: []types.Author{
				{LastName: "D", Affiliation: "Novartis, Basel"},
			},
		},
	}

	summary := Summarize("oncology", c.ClassifyAll(papers))

	if summary.Query != "oncology" {
		t.Errorf("query = %q, want oncology", summary.Query)
	}
	if summary.TotalPapers != 3 {
		t.Errorf("total papers = %d, want 3", summary.TotalPapers)
	}
	if summary.PapersWithIndustry != 2 {
		t.Errorf("papers with industry = %d, want 2", summary.PapersWithIndustry)
	}
	if summary.IndustryAuthorCount != 3 {
		t.Errorf("industry author count = %d, want 3", summary.IndustryAuthorCount)
	}
}

func TestCompanyFrequencyCountedOncePerPaper(t *testing.T) {
	c := defaultClassifier()
	paper := types.Paper{
		PubmedID: "1",
		Authors: []types.Author{
			{LastName: "A", Affiliation: "Pfizer Inc, NY"},
			{LastName: "B", Affiliation: "Pfizer Inc, NY"},
			{LastName: "C", Affiliation: "Pfizer Inc, NY"},
		},
	}

	summary := Summarize("q", c.ClassifyAll([]types.Paper{paper}))
	if summary.CompanyFrequency["pfizer"] != 1 {
		t.Errorf("company_frequency[pfizer] = %d, want 1 (once per paper, not per author)",
			summary.CompanyFrequency["pfizer"])
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize("nothing", nil)
	if summary.TotalPapers != 0 || summary.PapersWithIndustry != 0 || summary.IndustryAuthorCount != 0 {
		t.Errorf("empty input summary = %+v, want zeros", summary)
	}
}

func TestDebugLoggingDoesNotChangeOutcome(t *testing.T) {
	author := types.Author{LastName: "X", Email: "x@pfizer.com", Affiliation: "Pfizer Inc"}

	quiet := New(types.ClassifierConfig{}, nil).ClassifyAuthor(author)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	traced := New(types.ClassifierConfig{Debug: true}, logger).ClassifyAuthor(author)

	if !reflect.DeepEqual(quiet, traced) {
		t.Errorf("debug tracing altered the classification: %+v vs %+v", quiet, traced)
	}
	if buf.Len() == 0 {
		t.Error("debug mode emitted no trace")
	}
}
