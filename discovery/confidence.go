package discovery

import (
	"math"
	"time"

	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/tools"
)

// Source reliability weights for the two fixed sources. Tool sources carry
// the weight configured at registration.
const (
	vectorStoreReliability = 0.95
	fallbackReliability    = 0.5
)

// confidenceFloor keeps a single zero factor from collapsing the geometric
// mean to zero.
const confidenceFloor = 0.01

// completenessFields is the number of trackable fields on a match: name,
// domain, description, industry, business model, employee count, location.
const completenessFields = 7

// Confidence estimates how trustworthy a single match is, independent of
// similarity. It is the geometric mean of four factors: source reliability,
// field completeness, query relevance against the original query, and
// freshness of discovery. Each factor is clamped to a small positive floor
// before combining.
func Confidence(match *core.CompanyMatch, query string, registry *tools.Registry, now time.Time) float64 {
	factors := [4]float64{
		sourceReliability(match.Source, registry),
		completeness(match),
		queryRelevance(match, query),
		freshnessFactor(now.Sub(match.DiscoveredAt)),
	}

	logSum := 0.0
	for _, factor := range factors {
		if factor < confidenceFloor {
			factor = confidenceFloor
		}
		logSum += math.Log(factor)
	}
	return math.Exp(logSum / float64(len(factors)))
}

// sourceReliability returns the reliability weight for a match source. Tool
// sources defer to the registry; unknown tools get the registry default.
func sourceReliability(source core.Source, registry *tools.Registry) float64 {
	switch source {
	case core.SourceVectorStore:
		return vectorStoreReliability
	case core.SourceFallback:
		return fallbackReliability
	}
	if registry != nil {
		return registry.Reliability(string(source))
	}
	return tools.DefaultReliability
}

// completeness returns the fraction of trackable fields populated on a match.
func completeness(match *core.CompanyMatch) float64 {
	populated := 0
	if match.Name != "" {
		populated++
	}
	if match.Domain != "" {
		populated++
	}
	if match.Description != "" {
		populated++
	}
	if match.Industry != "" {
		populated++
	}
	if match.BusinessModel != "" {
		populated++
	}
	if match.EmployeeCount > 0 {
		populated++
	}
	if match.Location != "" {
		populated++
	}
	return float64(populated) / completenessFields
}

// queryRelevance blends how much of the query shows up in the match:
// 0.7 weight on name-token overlap, 0.3 on description-token overlap.
func queryRelevance(match *core.CompanyMatch, query string) float64 {
	queryTokens := tokenizeAndFilter(query)
	nameOverlap := overlapFraction(queryTokens, tokenSet(tokenizeAndFilter(match.Name)))
	descOverlap := overlapFraction(queryTokens, tokenSet(tokenizeAndFilter(match.Description)))
	return 0.7*nameOverlap + 0.3*descOverlap
}

// freshnessFactor steps confidence down as a match's discovery time ages.
func freshnessFactor(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return 1.0
	case age < 24*time.Hour:
		return 0.9
	case age < 7*24*time.Hour:
		return 0.8
	case age < 30*24*time.Hour:
		return 0.6
	default:
		return 0.4
	}
}
