// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClassifiedAuthor is the classification verdict for a single author.
type ClassifiedAuthor struct {
	// Author is the record the verdict applies to.
	Author Author `json:"author" yaml:"author"`

	// IsIndustry reports whether the author's signals indicate employment
	// by a commercial organization.
	IsIndustry bool `json:"is_industry" yaml:"is_industry"`

	// MatchedCompany is the canonical name of the known company found in the
	// affiliation text, or empty when none matched. A company match is
	// authoritative: it sets IsIndustry regardless of the combined score.
	MatchedCompany string `json:"matched_company,omitempty" yaml:"matched_company,omitempty"`

	// CombinedScore is the weighted sum of the email-domain and
	// affiliation-text signals, in [-1, 1].
	CombinedScore float64 `json:"combined_score" yaml:"combined_score"`
}

// PaperClassification aggregates author verdicts for one paper.
type PaperClassification struct {
	// Paper is the record the classification applies to.
	Paper Paper `json:"paper" yaml:"paper"`

	// IndustryAuthors lists the authors classified as industry-affiliated,
	// in original author order.
	IndustryAuthors []ClassifiedAuthor `json:"industry_authors" yaml:"industry_authors"`

	// Companies lists the matched company names across industry authors,
	// deduplicated in first-seen order.
	Companies []string `json:"companies" yaml:"companies"`

	// HasIndustryAuthor reports whether IndustryAuthors is non-empty.
	HasIndustryAuthor bool `json:"has_industry_author" yaml:"has_industry_author"`
}

// SearchSummary holds aggregate statistics for one classified search.
type SearchSummary struct {
	// Query is the search term that produced the papers.
	Query string `json:"query" yaml:"query"`

	// TotalPapers is the number of papers considered.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// PapersWithIndustry counts papers with at least one industry author.
	PapersWithIndustry int `json:"papers_with_industry" yaml:"papers_with_industry"`

	// IndustryAuthorCount is the total number of industry authors across
	// all papers.
	IndustryAuthorCount int `json:"industry_author_count" yaml:"industry_author_count"`

	// CompanyFrequency maps a lowercased company name to the number of
	// papers it appears on. Each company is counted once per paper, not
	// once per author.
	CompanyFrequency map[string]int `json:"company_frequency,omitempty" yaml:"company_frequency,omitempty"`
}
