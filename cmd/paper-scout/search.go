// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/output"
	"github.com/pdiddy/paper-scout/internal/pubmed"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search PubMed and flag papers with industry authors",
	Long: `Search runs a PubMed query, fetches the matching papers, classifies every
author as industry or academic, and reports the papers with at least one
industry-affiliated author.

By default results print as a table. Use --file to export CSV, --json for
machine-readable output, or --save to keep the raw papers for later
re-classification with the classify subcommand.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("max-results", "m", 20, "maximum number of papers to fetch")
	searchCmd.Flags().StringP("file", "f", "", "write results to a CSV file instead of stdout")
	searchCmd.Flags().Bool("detailed", false, "include per-author scores in the CSV export")
	searchCmd.Flags().String("save", "", "save the fetched papers to a YAML file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().BoolP("debug", "d", false, "print classification diagnostics to stderr")
	searchCmd.Flags().String("email", "", "contact email sent to NCBI (raises rate limits)")
	searchCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query must not be empty")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	client := pubmed.NewClient(pubmedConfig(cmd), logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	ids, err := client.SearchIDs(ctx, query, maxResults)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d papers. Fetching details...\n", len(ids))

	papers, err := client.FetchPapers(ctx, ids)
	if err != nil {
		return err
	}

	classifier := classify.New(classifierConfig(debug), logger)
	classifications := classifier.ClassifyAll(papers)
	summary := classify.Summarize(query, classifications)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := output.WriteResultsFile(savePath, query, maxResults, papers, summary); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}

	return emitResults(cmd, classifications, summary)
}

// pubmedConfig assembles the PubMed client configuration from flags,
// the config file, and loaded secrets, in that order of precedence.
func pubmedConfig(cmd *cobra.Command) types.PubMedConfig {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = viper.GetString("pubmed.email")
	}
	if email == "" {
		email = secretDefault("ncbi-email", "")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault("ncbi-api-key", apiKey)

	return types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("pubmed.timeout"),
			UserAgent: "paper-scout/" + version,
		},
		BatchSize:  viper.GetInt("pubmed.batch_size"),
		BatchDelay: viper.GetDuration("pubmed.batch_delay"),
		Email:      email,
		APIKey:     apiKey,
	}
}

// classifierConfig reads scoring weights from the config file, leaving
// zero values for the classifier defaults.
func classifierConfig(debug bool) types.ClassifierConfig {
	return types.ClassifierConfig{
		EmailWeight:       viper.GetFloat64("classifier.email_weight"),
		AffiliationWeight: viper.GetFloat64("classifier.affiliation_weight"),
		IndustryThreshold: viper.GetFloat64("classifier.industry_threshold"),
		Debug:             debug,
	}
}

// emitResults writes classifications to the destination selected by the
// shared output flags (--file, --detailed, --json, or stdout table).
func emitResults(cmd *cobra.Command, classifications []types.PaperClassification, summary types.SearchSummary) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Papers  []types.PaperClassification `json:"papers"`
			Summary types.SearchSummary         `json:"summary"`
		}{classifications, summary})
	}

	filePath, _ := cmd.Flags().GetString("file")
	detailed, _ := cmd.Flags().GetBool("detailed")
	if filePath != "" {
		if detailed {
			f, err := os.Create(filePath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", filePath, err)
			}
			defer f.Close()
			if err := output.WriteDetailedCSV(f, classifications); err != nil {
				return err
			}
		} else if err := output.ExportCSV(filePath, classifications); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", filePath)
		output.PrintSummary(summary, os.Stderr)
		return nil
	}

	output.FormatTable(classifications, os.Stdout)
	output.PrintSummary(summary, os.Stdout)
	return nil
}
