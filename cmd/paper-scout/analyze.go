// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/analyze"
	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize saved papers with an LLM",
	Long: `Analyze reads a results file written by 'search --save' and asks an LLM
for structured insights. By default it summarizes each paper; with --trends
it produces a single trend report across the whole set.

Requires a Gemini API key via .secrets/gemini-api-key, the GEMINI_API_KEY
environment variable, or the analysis.api_key config entry.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("input", "i", "", "results file written by 'search --save' (required)")
	analyzeCmd.Flags().Bool("trends", false, "produce one trend report instead of per-paper summaries")
	analyzeCmd.Flags().Int("limit", 5, "maximum papers to summarize (0 = all)")
	analyzeCmd.Flags().String("model", "", "Gemini model name (default gemini-1.5-flash)")
	analyzeCmd.Flags().BoolP("debug", "d", false, "log analysis diagnostics to stderr")
	_ = analyzeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	rf, err := output.ReadResultsFile(inputPath)
	if err != nil {
		return err
	}
	if len(rf.Papers) == 0 {
		return fmt.Errorf("%s contains no papers", inputPath)
	}

	apiKey := viper.GetString("analysis.api_key")
	apiKey = secretDefault("gemini-api-key", apiKey)
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("analysis.model")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	backend, err := analyze.NewGemini(ctx, apiKey, model)
	if err != nil {
		return err
	}
	defer backend.Close()

	debug, _ := cmd.Flags().GetBool("debug")
	analyzer := analyze.New(backend, newLogger(debug))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if trends, _ := cmd.Flags().GetBool("trends"); trends {
		classifier := classify.New(classifierConfig(debug), newLogger(debug))
		report, err := analyzer.AnalyzeTrends(ctx, classifier.ClassifyAll(rf.Papers))
		if err != nil {
			return err
		}
		return enc.Encode(report)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	papers := rf.Papers
	if limit > 0 && len(papers) > limit {
		papers = papers[:limit]
		fmt.Fprintf(os.Stderr, "Summarizing the first %d of %d papers (use --limit 0 for all)\n",
			limit, len(rf.Papers))
	}

	type paperSummary struct {
		PubmedID string                `json:"pubmed_id"`
		Title    string                `json:"title"`
		Analysis *analyze.PaperSummary `json:"analysis"`
	}
	summaries := make([]paperSummary, 0, len(papers))
	for _, paper := range papers {
		summary, err := analyzer.SummarizePaper(ctx, paper)
		if err != nil {
			return err
		}
		summaries = append(summaries, paperSummary{
			PubmedID: paper.PubmedID,
			Title:    paper.Title,
			Analysis: summary,
		})
	}
	return enc.Encode(summaries)
}
