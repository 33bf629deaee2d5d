// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze generates LLM-backed summaries and trend reports for
// classified papers. Model access goes through the Backend interface so
// the analysis logic stays testable without network calls.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const (
	maxTrendTitles    = 15
	maxTrendCompanies = 20
	maxPromptAuthors  = 5
)

// Backend generates text from a prompt.
type Backend interface {
	// Name identifies the backend for logging.
	Name() string
	// Generate returns the model's response to the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// PaperSummary is the structured response for a single paper.
type PaperSummary struct {
	Summary           string `json:"summary"`
	KeyFindings       string `json:"key_findings"`
	Methodology       string `json:"methodology"`
	Impact            string `json:"impact"`
	IndustryRelevance string `json:"industry_relevance"`
}

// TrendReport is the structured response for a set of papers.
type TrendReport struct {
	Themes           []string `json:"themes"`
	Trends           []string `json:"trends"`
	KeyPlayers       []string `json:"key_players"`
	Methodologies    []string `json:"methodologies"`
	FutureDirections []string `json:"future_directions"`
}

// Analyzer runs analysis prompts against a Backend.
type Analyzer struct {
	backend Backend
	log     *slog.Logger
}

// New builds an Analyzer. A nil logger disables logging.
func New(backend Backend, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{backend: backend, log: logger}
}

// SummarizePaper asks the backend for a structured summary of one paper.
// An unparseable response degrades to a summary built from the raw text
// rather than an error; only backend failures are returned.
func (a *Analyzer) SummarizePaper(ctx context.Context, paper types.Paper) (*PaperSummary, error) {
	prompt := buildSummaryPrompt(paper)

	raw, err := a.backend.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("summarizing paper %s: %w", paper.PubmedID, err)
	}

	content := stripJSONFence(raw)
	var summary PaperSummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		a.log.Warn("summary response was not valid JSON",
			"backend", a.backend.Name(), "pubmed_id", paper.PubmedID)
		return &PaperSummary{
			Summary:           truncate(content, 200),
			KeyFindings:       "Analysis available in summary",
			Methodology:       "Not specified",
			Impact:            "Requires further analysis",
			IndustryRelevance: "To be determined",
		}, nil
	}
	return &summary, nil
}

// AnalyzeTrends asks the backend for a trend report across the given
// classifications. On an unparseable response the report falls back to
// the companies observed in the input.
func (a *Analyzer) AnalyzeTrends(ctx context.Context, classifications []types.PaperClassification) (*TrendReport, error) {
	prompt, companies := buildTrendsPrompt(classifications)

	raw, err := a.backend.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyzing trends: %w", err)
	}

	content := stripJSONFence(raw)
	var report TrendReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		a.log.Warn("trend response was not valid JSON", "backend", a.backend.Name())
		return &TrendReport{
			Themes:           []string{"Analysis in progress"},
			Trends:           []string{"Trend analysis available"},
			KeyPlayers:       companies,
			Methodologies:    []string{"Various research methods"},
			FutureDirections: []string{"Continued research expected"},
		}, nil
	}
	return &report, nil
}

func buildSummaryPrompt(paper types.Paper) string {
	var b strings.Builder
	b.WriteString("Analyze this research paper and provide a comprehensive summary:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", paper.Title)
	if paper.Abstract != "" {
		fmt.Fprintf(&b, "Abstract: %s\n", paper.Abstract)
	}
	if len(paper.Authors) > 0 {
		names := make([]string, 0, maxPromptAuthors)
		for i, author := range paper.Authors {
			if i == maxPromptAuthors {
				break
			}
			names = append(names, author.DisplayName())
		}
		suffix := ""
		if len(paper.Authors) > maxPromptAuthors {
			suffix = "..."
		}
		fmt.Fprintf(&b, "Authors: %s%s\n", strings.Join(names, ", "), suffix)
	}
	b.WriteString(`
Please provide:
1. A concise summary (2-3 sentences)
2. Key findings or contributions
3. Research methodology (if mentioned)
4. Potential impact or significance
5. Industry relevance (if any)

Format your response as JSON with keys: summary, key_findings, methodology, impact, industry_relevance
`)
	return b.String()
}

// buildTrendsPrompt returns the prompt along with the deduplicated
// company list so callers can reuse it for the fallback report.
func buildTrendsPrompt(classifications []types.PaperClassification) (string, []string) {
	var titles []string
	seen := make(map[string]bool)
	var companies []string
	for _, pc := range classifications {
		if len(titles) < maxTrendTitles {
			titles = append(titles, pc.Paper.Title)
		}
		for _, company := range pc.Companies {
			key := strings.ToLower(company)
			if seen[key] {
				continue
			}
			seen[key] = true
			companies = append(companies, company)
		}
	}
	sort.Strings(companies)
	if len(companies) > maxTrendCompanies {
		companies = companies[:maxTrendCompanies]
	}

	var b strings.Builder
	b.WriteString("Analyze these research papers and identify trends:\n\nPaper Titles:\n")
	for _, title := range titles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	fmt.Fprintf(&b, "\nCompanies/Organizations involved:\n%s\n", strings.Join(companies, ", "))
	b.WriteString(`
Please identify:
1. Main research themes and topics
2. Emerging trends in the field
3. Key industry players and collaborations
4. Research methodologies being used
5. Potential future directions

Format as JSON with keys: themes, trends, key_players, methodologies, future_directions
`)
	return b.String(), companies
}

// stripJSONFence removes a surrounding markdown code fence, if present.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate shortens s to at most n runes. Slicing on rune boundaries keeps
// multi-byte model output valid UTF-8.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
