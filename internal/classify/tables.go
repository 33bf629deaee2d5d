// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "regexp"

// Reference tables for the affiliation heuristics. Keyword lists are matched
// case-insensitively against lowercased input; each keyword counts at most
// once per affiliation regardless of how often it occurs.

// academicKeywords signal academic institutional language.
var academicKeywords = []string{
	"university", "college", "institute", "department", "school",
	"hospital", "laboratory", "medical center", "faculty", "academy",
}

// industryKeywords signal commercial language. These are matched as plain
// substrings; short corporate suffixes live in industryTokenPattern instead
// because substring matching on "ag" or "inc" yields false hits inside
// ordinary words.
var industryKeywords = []string{
	"pharmaceutical", "biotech", "therapeutics", "biosciences", "r&d", "company",
}

// industryTokenPattern matches short corporate suffixes on word boundaries.
var industryTokenPattern = regexp.MustCompile(`\b(inc|ltd|llc|corp|gmbh|ag|plc)\b`)

// academicSuffixes end an email domain that belongs to an academic
// institution. ".ac." covers country-coded academic domains (ac.uk, ac.jp).
// ".org" is ambiguous in practice but resolved toward academic; the
// academic list is checked first for the same reason.
var academicSuffixes = []string{".edu", ".ac.", ".gov", ".org"}

// industrySuffixes end an email domain that belongs to a commercial
// organization. ".co." covers country-coded commercial domains (co.uk, co.jp).
var industrySuffixes = []string{".com", ".biz", ".co.", ".inc", ".corp"}

// knownCompanies is the reference list of commercial organizations. A
// case-insensitive substring hit against Match is authoritative for the
// affiliation signal; Display is the canonical name surfaced in results.
// Ordered so that more specific names win over their abbreviations.
var knownCompanies = []struct {
	Match   string
	Display string
}{
	{"pfizer", "Pfizer"},
	{"roche", "Roche"},
	{"novartis", "Novartis"},
	{"merck", "Merck"},
	{"glaxosmithkline", "GlaxoSmithKline"},
	{"gsk", "GSK"},
	{"sanofi", "Sanofi"},
	{"astrazeneca", "AstraZeneca"},
	{"bristol myers squibb", "Bristol Myers Squibb"},
	{"johnson & johnson", "Johnson & Johnson"},
	{"abbvie", "AbbVie"},
	{"amgen", "Amgen"},
	{"gilead", "Gilead"},
	{"biogen", "Biogen"},
	{"regeneron", "Regeneron"},
	{"vertex", "Vertex"},
	{"moderna", "Moderna"},
	{"biontech", "BioNTech"},
	{"eli lilly", "Eli Lilly"},
	{"takeda", "Takeda"},
	{"boehringer ingelheim", "Boehringer Ingelheim"},
	{"bayer", "Bayer"},
	{"novo nordisk", "Novo Nordisk"},
	{"illumina", "Illumina"},
	{"thermo fisher", "Thermo Fisher"},
}
