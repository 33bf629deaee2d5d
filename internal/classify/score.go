// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "strings"

// Signal scores returned by the email-domain scorer.
const (
	signalAcademic      = -1.0
	signalIndeterminate = 0.0
	signalIndustry      = 1.0
)

// scoreEmail classifies an email address by its domain. The result is
// three-valued: -1 (academic), 0 (indeterminate), +1 (industry). The
// academic suffix list is checked before the industry list so a domain
// matching both resolves toward academic.
func scoreEmail(email string) float64 {
	if email == "" {
		return signalIndeterminate
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return signalIndeterminate
	}
	domain := strings.ToLower(email[at+1:])

	for _, suffix := range academicSuffixes {
		if matchesDomainSuffix(domain, suffix) {
			return signalAcademic
		}
	}
	for _, suffix := range industrySuffixes {
		if matchesDomainSuffix(domain, suffix) {
			return signalIndustry
		}
	}
	return signalIndeterminate
}

// matchesDomainSuffix reports whether domain ends with suffix. Entries
// written with a trailing dot (".ac.", ".co.") denote country-coded
// two-level suffixes and match anywhere past the first label ("ic.ac.uk").
func matchesDomainSuffix(domain, suffix string) bool {
	if strings.HasSuffix(suffix, ".") {
		return strings.Contains(domain, suffix)
	}
	return strings.HasSuffix(domain, suffix)
}

// scoreAffiliation scores free-text affiliation in [-1, 1] and returns the
// canonical name of a known company when one appears in the text. A company
// match is authoritative for this signal and forces +1. Otherwise the score
// is the keyword-hit difference normalized by total hits, so purely academic
// language yields -1 and purely commercial language +1, with mixed text
// landing in between.
func scoreAffiliation(affiliation string) (score float64, company string) {
	if strings.TrimSpace(affiliation) == "" {
		return 0, ""
	}
	text := strings.ToLower(affiliation)

	if c := matchCompany(text); c != "" {
		return signalIndustry, c
	}

	academicHits := 0
	for _, kw := range academicKeywords {
		if strings.Contains(text, kw) {
			academicHits++
		}
	}

	industryHits := 0
	for _, kw := range industryKeywords {
		if strings.Contains(text, kw) {
			industryHits++
		}
	}
	tokens := map[string]bool{}
	for _, m := range industryTokenPattern.FindAllString(text, -1) {
		tokens[m] = true
	}
	industryHits += len(tokens)

	total := academicHits + industryHits
	if total == 0 {
		return 0, ""
	}
	return float64(industryHits-academicHits) / float64(total), ""
}

// matchCompany returns the canonical display name of the first known company
// found in the lowercased affiliation text, or "" when none matches.
func matchCompany(text string) string {
	for _, c := range knownCompanies {
		if strings.Contains(text, c.Match) {
			return c.Display
		}
	}
	return ""
}
