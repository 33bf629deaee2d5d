// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders classified search results as CSV files, console
// tables, and reloadable YAML results files.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// csvHeader is the per-paper export schema. Column order is part of the
// exported format and must stay stable.
var csvHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
	"Journal",
	"Total Authors",
	"Industry Authors Count",
}

// WriteCSV writes one row per paper that has at least one industry author.
func WriteCSV(w io.Writer, classifications []types.PaperClassification) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, pc := range classifications {
		if !pc.HasIndustryAuthor {
			continue
		}
		row := []string{
			pc.Paper.PubmedID,
			pc.Paper.Title,
			pc.Paper.PublicationDate,
			joinAuthorNames(pc.IndustryAuthors),
			strings.Join(pc.Companies, "; "),
			pc.Paper.CorrespondingEmail,
			pc.Paper.Journal,
			strconv.Itoa(len(pc.Paper.Authors)),
			strconv.Itoa(len(pc.IndustryAuthors)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the per-paper CSV to path, creating parent directories.
func ExportCSV(path string, classifications []types.PaperClassification) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, classifications)
}

// detailedHeader is the per-author report schema.
var detailedHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Journal",
	"Author Last Name",
	"Author First Name",
	"Author Initials",
	"Author Email",
	"Author Affiliation",
	"Matched Company",
	"Combined Score",
}

// WriteDetailedCSV writes one row per industry author, for inspecting
// individual classification decisions.
func WriteDetailedCSV(w io.Writer, classifications []types.PaperClassification) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailedHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, pc := range classifications {
		for _, ca := range pc.IndustryAuthors {
			row := []string{
				pc.Paper.PubmedID,
				pc.Paper.Title,
				pc.Paper.PublicationDate,
				pc.Paper.Journal,
				ca.Author.LastName,
				ca.Author.FirstName,
				ca.Author.Initials,
				ca.Author.Email,
				ca.Author.Affiliation,
				ca.MatchedCompany,
				strconv.FormatFloat(ca.CombinedScore, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// joinAuthorNames formats industry authors as "Last, First; Last, First".
func joinAuthorNames(authors []types.ClassifiedAuthor) string {
	names := make([]string, len(authors))
	for i, ca := range authors {
		names[i] = ca.Author.DisplayName()
	}
	return strings.Join(names, "; ")
}
