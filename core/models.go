package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from normalized company names via content-based hashing.
type ID uint64

// IDFromName generates a deterministic ID from a company name using BLAKE2b
// hashing of the normalized form. Identical names (ignoring case and
// surrounding whitespace) produce identical IDs.
func IDFromName(name string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(NormalizeName(name)))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeName returns the canonical form of a company name used as the
// deduplication key: lowercased, trimmed, inner whitespace collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Source identifies the discovery phase or search tool that produced a match.
type Source string

const (
	// SourceVectorStore marks matches produced by the vector similarity store.
	SourceVectorStore Source = "vector-store"
	// SourceFallback marks matches produced by the generic fallback search.
	SourceFallback Source = "fallback-search"
)

// ToolSource returns the Source value for a registered search tool.
func ToolSource(toolID string) Source {
	return Source(toolID)
}

// CompanyMatch represents one discovered candidate company.
// Matches are created by exactly one phase or tool, enriched once during
// scoring, and possibly discarded during filtering.
type CompanyMatch struct {
	Name              string
	Domain            string
	Description       string
	Industry          string
	BusinessModel     string
	EmployeeCount     int
	Location          string
	SimilarityScore   float64
	ConfidenceScore   float64
	Source            Source
	SourceAttribution map[Source]float64 // per-source weight contribution
	DiscoveredAt      time.Time
	SearchQuery       string
}

// NormalizedName returns the deduplication key for this match.
func (m *CompanyMatch) NormalizedName() string {
	return NormalizeName(m.Name)
}

// DiscoveryRequest is the immutable input to a discovery run.
type DiscoveryRequest struct {
	CompanyName        string
	MaxResults         int     // [1, 200], default 50
	MinSimilarityScore float64 // [0, 1], default 0.1
	UseVectorStore     bool
	UseSearchTools     bool
	Parallel           bool

	// Optional result filters. Zero values mean "not active".
	IndustryFilter      string
	BusinessModelFilter string
	LocationFilter      string
	MinEmployees        int
	MaxEmployees        int
}

const (
	// DefaultMaxResults is used when a request does not set MaxResults.
	DefaultMaxResults = 50
	// DefaultMinSimilarityScore is used when a request does not set a threshold.
	DefaultMinSimilarityScore = 0.1
	// MaxResultsLimit bounds MaxResults.
	MaxResultsLimit = 200
)

// NewDiscoveryRequest creates a request for the given company with defaults:
// 50 results, 0.1 minimum similarity, all phases enabled, parallel execution.
func NewDiscoveryRequest(companyName string) *DiscoveryRequest {
	return &DiscoveryRequest{
		CompanyName:        companyName,
		MaxResults:         DefaultMaxResults,
		MinSimilarityScore: DefaultMinSimilarityScore,
		UseVectorStore:     true,
		UseSearchTools:     true,
		Parallel:           true,
	}
}

// DiscoveryResult is the output aggregate of a discovery run.
// It is always returned as a value: total failure is represented by an empty
// match list, Strategy "failed" and a populated Errors list, never a panic.
type DiscoveryResult struct {
	QueryCompany         string
	Strategy             string
	Matches              []*CompanyMatch
	TotalMatches         int
	ExecutionTimeSeconds float64
	SourceTiming         map[Source]float64 // source -> seconds
	AverageConfidence    float64
	CoverageScore        float64 // distinct sources used / possible sources
	FreshnessScore       float64
	Errors               []string // human-readable failure notes
}
