// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// FormatTable writes papers with industry authors as a human-readable table.
func FormatTable(classifications []types.PaperClassification, w io.Writer) {
	shown := 0
	for _, pc := range classifications {
		if pc.HasIndustryAuthor {
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "No papers with industry authors found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-60s  %-14s  %-30s  %s\n",
		"PMID", "Title", "Date", "Companies", "Industry/Total")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for _, pc := range classifications {
		if !pc.HasIndustryAuthor {
			continue
		}
		title := clip(pc.Paper.Title, 60)
		companies := clip(strings.Join(pc.Companies, ", "), 30)
		fmt.Fprintf(w, "%-10s  %-60s  %-14s  %-30s  %d/%d\n",
			pc.Paper.PubmedID, title, pc.Paper.PublicationDate, companies,
			len(pc.IndustryAuthors), len(pc.Paper.Authors))
	}
}

// clip shortens s to at most max runes, appending an ellipsis. Slicing on
// rune boundaries keeps multi-byte titles valid UTF-8.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// PrintSummary writes the aggregate statistics, including the most common
// companies ordered by paper count (ties broken alphabetically).
func PrintSummary(summary types.SearchSummary, w io.Writer) {
	fmt.Fprintf(w, "\nQuery: %s\n", summary.Query)
	fmt.Fprintf(w, "Total papers considered:      %d\n", summary.TotalPapers)
	fmt.Fprintf(w, "Papers with industry authors: %d\n", summary.PapersWithIndustry)
	fmt.Fprintf(w, "Industry authors identified:  %d\n", summary.IndustryAuthorCount)

	if len(summary.CompanyFrequency) == 0 {
		return
	}

	type companyCount struct {
		name  string
		count int
	}
	counts := make([]companyCount, 0, len(summary.CompanyFrequency))
	for name, count := range summary.CompanyFrequency {
		counts = append(counts, companyCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	fmt.Fprintln(w, "Most common companies:")
	for _, c := range counts {
		fmt.Fprintf(w, "  %-30s %d\n", c.name, c.count)
	}
}
