// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Entry is one stored research fact or snippet with provenance.
type Entry struct {
	// ID is assigned by the store at insert time and is immutable.
	ID int64 `json:"id" yaml:"id"`

	// Title is the display label. Never empty for a stored entry.
	Title string `json:"title" yaml:"title"`

	// URL is the optional source locator.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// RawText is the optional full source text.
	RawText string `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`

	// Summary is the short text rendered into the report body.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// ClusterLabel is an integer grouping tag. Zero means ungrouped.
	ClusterLabel int `json:"cluster_label" yaml:"cluster_label"`

	// Depth is the research recursion depth the entry was captured at.
	// Defaults to 1 on insert.
	Depth int `json:"depth" yaml:"depth"`

	// SessionID links the entry to a Session row. Zero means
	// unassociated.
	SessionID int64 `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// Session is one logged invocation of the research pipeline.
type Session struct {
	// ID is assigned by the store at insert time.
	ID int64 `json:"id" yaml:"id"`

	// SessionName labels the invocation. Never empty.
	SessionName string `json:"session_name" yaml:"session_name"`

	// Query is the originating research question. Never empty.
	Query string `json:"query" yaml:"query"`

	// CreatedAt is set once at insert time and never mutated.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SearchResult is one simplified web search hit fed to summarization.
type SearchResult struct {
	// Title is the result headline.
	Title string `json:"title" yaml:"title"`

	// Link is the result URL.
	Link string `json:"link" yaml:"link"`

	// Snippet is the short excerpt shown with the result.
	Snippet string `json:"snippet" yaml:"snippet"`
}
