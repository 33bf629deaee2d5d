// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Re-classify authors from a saved results file",
	Long: `Classify reruns author classification on papers saved with
'search --save', without querying PubMed again. Weight and threshold
flags override the config file, which makes it easy to compare
classifier settings against a fixed paper set.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringP("input", "i", "", "results file written by 'search --save' (required)")
	classifyCmd.Flags().Float64("email-weight", 0, "weight of the email domain signal (default 0.7)")
	classifyCmd.Flags().Float64("affiliation-weight", 0, "weight of the affiliation text signal (default 0.3)")
	classifyCmd.Flags().Float64("threshold", 0, "combined score above which an author is industry (default 0.5)")
	classifyCmd.Flags().StringP("file", "f", "", "write results to a CSV file instead of stdout")
	classifyCmd.Flags().Bool("detailed", false, "include per-author scores in the CSV export")
	classifyCmd.Flags().Bool("json", false, "output results as JSON")
	classifyCmd.Flags().BoolP("debug", "d", false, "print classification diagnostics to stderr")
	_ = classifyCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	rf, err := output.ReadResultsFile(inputPath)
	if err != nil {
		return err
	}
	if len(rf.Papers) == 0 {
		return fmt.Errorf("%s contains no papers", inputPath)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	cfg := classifierConfig(debug)
	if w, _ := cmd.Flags().GetFloat64("email-weight"); w != 0 {
		cfg.EmailWeight = w
	}
	if w, _ := cmd.Flags().GetFloat64("affiliation-weight"); w != 0 {
		cfg.AffiliationWeight = w
	}
	if th, _ := cmd.Flags().GetFloat64("threshold"); th != 0 {
		cfg.IndustryThreshold = th
	}

	classifier := classify.New(cfg, newLogger(debug))
	classifications := classifier.ClassifyAll(rf.Papers)
	summary := classify.Summarize(rf.Query, classifications)

	return emitResults(cmd, classifications, summary)
}
