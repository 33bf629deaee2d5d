// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// ResultsFile is the on-disk representation of a search and its fetched
// papers. A saved search can be re-classified or analyzed later without
// re-querying PubMed.
type ResultsFile struct {
	Query      string              `yaml:"query"`
	MaxResults int                 `yaml:"max_results"`
	Papers     []types.Paper       `yaml:"papers"`
	Summary    types.SearchSummary `yaml:"summary"`
	Timestamp  time.Time           `yaml:"timestamp"`
}

// WriteResultsFile saves the query, raw papers, and summary to a YAML file.
func WriteResultsFile(path, query string, maxResults int, papers []types.Paper, summary types.SearchSummary) error {
	rf := ResultsFile{
		Query:      query,
		MaxResults: maxResults,
		Papers:     papers,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultsFile loads a previously saved results file from disk.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	return &rf, nil
}
