package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the knowledge store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "knowledge.db").
	// ":memory:" opens an in-memory database.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the SerpAPI endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the number of organic results requested per query (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	// Model is the chat model identifier (default "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the OpenAI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AgentConfig holds settings for the research loop.
type AgentConfig struct {
	// MaxDepth bounds the research recursion (default 2).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// MaxQueriesPerDepth bounds how many queries run at each depth (default 5).
	MaxQueriesPerDepth int `json:"max_queries_per_depth" yaml:"max_queries_per_depth"`

	// ReportPath is where the final Markdown report is written (default "report.md").
	ReportPath string `json:"report_path" yaml:"report_path"`

	// ExportPath is where the knowledge base JSON export is written
	// (default "knowledge.json").
	ExportPath string `json:"export_path" yaml:"export_path"`
}

// ServerConfig holds settings for the agent query endpoint.
type ServerConfig struct {
	// Addr is the listen address (default ":8765").
	Addr string `json:"addr" yaml:"addr"`

	// MaxSources bounds how many knowledge entries back one answer (default 5).
	MaxSources int `json:"max_sources" yaml:"max_sources"`
}

// Config groups all stage configurations for the agent.
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Agent     AgentConfig     `json:"agent" yaml:"agent"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
