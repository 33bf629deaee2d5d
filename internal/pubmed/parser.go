// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// PubMed efetch XML structures. Only the fields the pipeline consumes are
// mapped; everything else in the records is ignored by the decoder.
type articleSet struct {
	Articles []article `xml:"PubmedArticle"`
}

type article struct {
	PMID          string      `xml:"MedlineCitation>PMID"`
	Title         string      `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal       string      `xml:"MedlineCitation>Article>Journal>Title"`
	AbstractParts []string    `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors       []xmlAuthor `xml:"MedlineCitation>Article>AuthorList>Author"`
	PubDate       pubDate     `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
}

type xmlAuthor struct {
	LastName     string   `xml:"LastName"`
	ForeName     string   `xml:"ForeName"`
	Initials     string   `xml:"Initials"`
	Affiliations []string `xml:"AffiliationInfo>Affiliation"`
}

// pubDate carries either structured Year/Month/Day fields or a free-form
// MedlineDate ("2023 Nov-Dec"), never both.
type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// emailPattern extracts an email address embedded in affiliation text
// (PubMed appends "Electronic address: x@y.com." to many affiliations).
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ParseArticles decodes a PubMed efetch XML response into Paper records.
// Articles without a PMID are skipped rather than failing the batch. The
// corresponding-author email is the first email found across the author
// list, matching how PubMed surfaces contact addresses.
func ParseArticles(r io.Reader) ([]types.Paper, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed response: %w", err)
	}

	var papers []types.Paper
	for _, a := range set.Articles {
		if a.PMID == "" {
			continue
		}

		p := types.Paper{
			PubmedID:        a.PMID,
			Title:           strings.TrimSpace(a.Title),
			Journal:         strings.TrimSpace(a.Journal),
			Abstract:        joinAbstract(a.AbstractParts),
			PublicationDate: a.PubDate.format(),
		}

		for _, xa := range a.Authors {
			author := types.Author{
				LastName:    strings.TrimSpace(xa.LastName),
				FirstName:   strings.TrimSpace(xa.ForeName),
				Initials:    strings.TrimSpace(xa.Initials),
				Affiliation: strings.TrimSpace(strings.Join(xa.Affiliations, "; ")),
			}
			author.Email = extractEmail(author.Affiliation)
			if author.Email != "" && p.CorrespondingEmail == "" {
				p.CorrespondingEmail = author.Email
			}
			p.Authors = append(p.Authors, author)
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// joinAbstract concatenates labeled abstract sections into one string.
func joinAbstract(parts []string) string {
	var nonEmpty []string
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// extractEmail returns the first email address found in text, with the
// sentence-final period PubMed appends stripped off.
func extractEmail(text string) string {
	return strings.TrimSuffix(emailPattern.FindString(text), ".")
}

// format renders the publication date as "Year Month Day" using whichever
// parts the record carries, or the MedlineDate verbatim.
func (d pubDate) format() string {
	if d.MedlineDate != "" {
		return d.MedlineDate
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Year, d.Month, d.Day} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
