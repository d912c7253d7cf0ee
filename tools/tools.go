package tools

import "context"

// SearchTool is the capability interface every pluggable search integration
// adapts to. Concrete integrations translate their native call shape to this
// contract at the boundary.
// Implementations must be thread-safe for concurrent use.
type SearchTool interface {
	// Search executes one query and returns tool-native result records.
	// Returns an error if the query fails or the context is cancelled.
	Search(ctx context.Context, query string, opts SearchOptions) ([]RawResult, error)
}

// SearchOptions holds per-query execution options.
type SearchOptions struct {
	// MaxResults bounds how many records the tool should return per query.
	MaxResults int
}

// FallbackSearcher is the generic web-search collaborator invoked only when
// the primary phases under-deliver.
type FallbackSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]RawResult, error)
}

// RawResult is one result record as reported by a tool, before the executor
// normalizes it into a company match. All fields except Name are optional.
type RawResult struct {
	Name          string
	Domain        string
	Description   string
	Industry      string
	BusinessModel string
	EmployeeCount int
	Location      string
}
