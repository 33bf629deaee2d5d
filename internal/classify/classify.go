// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether paper authors are industry-affiliated or
// academic from their email domain and affiliation text, and aggregates the
// verdicts into per-paper and per-search statistics.
//
// Classification is a pure function of (email, affiliation): it performs no
// I/O, holds no mutable state, and never returns an error for malformed
// author data. Absent or garbled signals degrade to the indeterminate
// score. Papers are independent of each other, so callers may classify them
// from any concurrency model.
package classify

import (
	"log/slog"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Default weights and decision threshold, used when the corresponding
// ClassifierConfig field is zero.
const (
	DefaultEmailWeight       = 0.7
	DefaultAffiliationWeight = 0.3
	DefaultIndustryThreshold = 0.5
)

// Classifier applies the affiliation heuristics with a fixed configuration.
type Classifier struct {
	emailWeight       float64
	affiliationWeight float64
	threshold         float64
	log               *slog.Logger
	debug             bool
}

// New builds a Classifier from cfg. Zero-valued weights and threshold fall
// back to the package defaults. A nil logger disables diagnostics.
func New(cfg types.ClassifierConfig, logger *slog.Logger) *Classifier {
	c := &Classifier{
		emailWeight:       cfg.EmailWeight,
		affiliationWeight: cfg.AffiliationWeight,
		threshold:         cfg.IndustryThreshold,
		log:               logger,
		debug:             cfg.Debug,
	}
	if c.emailWeight == 0 {
		c.emailWeight = DefaultEmailWeight
	}
	if c.affiliationWeight == 0 {
		c.affiliationWeight = DefaultAffiliationWeight
	}
	if c.threshold == 0 {
		c.threshold = DefaultIndustryThreshold
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	return c
}

// ClassifyAuthor scores one author. The combined score is the weighted sum
// of the email and affiliation signals; an author is industry-affiliated
// when the combined score exceeds the threshold, or unconditionally when a
// known company name appears in the affiliation text (the company match is
// authoritative even when the weighted score alone falls short).
func (c *Classifier) ClassifyAuthor(author types.Author) types.ClassifiedAuthor {
	emailScore := scoreEmail(strings.TrimSpace(author.Email))
	affiliationScore, company := scoreAffiliation(author.Affiliation)

	combined := c.emailWeight*emailScore + c.affiliationWeight*affiliationScore
	isIndustry := combined > c.threshold || company != ""

	if c.debug {
		c.log.Debug("classified author",
			"author", author.DisplayName(),
			"email", author.Email,
			"email_score", emailScore,
			"affiliation_score", affiliationScore,
			"combined_score", combined,
			"matched_company", company,
			"is_industry", isIndustry)
	}

	return types.ClassifiedAuthor{
		Author:         author,
		IsIndustry:     isIndustry,
		MatchedCompany: company,
		CombinedScore:  combined,
	}
}

// ClassifyPaper classifies every author of a paper and derives the per-paper
// summary fields. Author order is preserved; companies are deduplicated in
// first-seen order. A paper with no authors yields an empty classification.
func (c *Classifier) ClassifyPaper(paper types.Paper) types.PaperClassification {
	pc := types.PaperClassification{Paper: paper}

	seen := map[string]bool{}
	for _, author := range paper.Authors {
		ca := c.ClassifyAuthor(author)
		if !ca.IsIndustry {
			continue
		}
		pc.IndustryAuthors = append(pc.IndustryAuthors, ca)
		if ca.MatchedCompany != "" && !seen[strings.ToLower(ca.MatchedCompany)] {
			seen[strings.ToLower(ca.MatchedCompany)] = true
			pc.Companies = append(pc.Companies, ca.MatchedCompany)
		}
	}

	pc.HasIndustryAuthor = len(pc.IndustryAuthors) > 0
	return pc
}

// ClassifyAll classifies a sequence of papers, preserving input order.
func (c *Classifier) ClassifyAll(papers []types.Paper) []types.PaperClassification {
	out := make([]types.PaperClassification, len(papers))
	for i, p := range papers {
		out[i] = c.ClassifyPaper(p)
	}
	return out
}

// Summarize aggregates per-paper classifications into overall statistics.
// CompanyFrequency counts each company once per paper it appears on, keyed
// by lowercased name, so frequent co-author companies are not inflated.
func Summarize(query string, classifications []types.PaperClassification) types.SearchSummary {
	s := types.SearchSummary{
		Query:            query,
		TotalPapers:      len(classifications),
		CompanyFrequency: map[string]int{},
	}

	for _, pc := range classifications {
		if !pc.HasIndustryAuthor {
			continue
		}
		s.PapersWithIndustry++
		s.IndustryAuthorCount += len(pc.IndustryAuthors)
		for _, company := range pc.Companies {
			s.CompanyFrequency[strings.ToLower(company)]++
		}
	}
	return s
}
