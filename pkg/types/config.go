package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the PubMed retrieval stage.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of papers to retrieve (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// BatchSize is the number of PMIDs fetched per efetch call (default 200).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pause between consecutive efetch batches (default 500ms).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// Email is the contact address sent to NCBI, recommended by their
	// usage policy.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional NCBI API key. With a key NCBI allows 10
	// requests per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Tool is the tool name reported to NCBI (default "paper-scout").
	Tool string `json:"tool" yaml:"tool"`
}

// ClassifierConfig holds the tunable weights and threshold of the
// author-affiliation classifier. Zero values select the package defaults
// (0.7 email weight, 0.3 affiliation weight, 0.5 threshold).
type ClassifierConfig struct {
	// EmailWeight scales the email-domain signal.
	EmailWeight float64 `json:"email_weight" yaml:"email_weight"`

	// AffiliationWeight scales the affiliation-text signal.
	AffiliationWeight float64 `json:"affiliation_weight" yaml:"affiliation_weight"`

	// IndustryThreshold is the combined-score cutoff above which an author
	// is labeled industry-affiliated.
	IndustryThreshold float64 `json:"industry_threshold" yaml:"industry_threshold"`

	// Debug enables per-author diagnostic log events.
	Debug bool `json:"debug" yaml:"debug"`
}

// ServerConfig holds settings for the web server.
type ServerConfig struct {
	// Port is the TCP port the HTTP server listens on (default 8080).
	Port int `json:"port" yaml:"port"`

	// ResultTTL is how long completed searches are kept in the result
	// store before the expiry sweeper removes them (default 1h).
	ResultTTL time.Duration `json:"result_ttl" yaml:"result_ttl"`

	// StoreDSN is the SQLite data source for the result store. The default
	// ":memory:" keeps nothing beyond process lifetime.
	StoreDSN string `json:"store_dsn,omitempty" yaml:"store_dsn,omitempty"`
}

// AnalysisConfig holds settings for the LLM analysis stage.
type AnalysisConfig struct {
	// Model is the generative model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generative AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis"`
}
