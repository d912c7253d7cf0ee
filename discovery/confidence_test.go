package discovery

import (
	"testing"
	"time"

	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/tools"
	"github.com/stretchr/testify/assert"
)

func TestSourceReliability(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register("crunchbase", &stubSearchTool{}, tools.WithReliability(0.9))

	assert.Equal(t, vectorStoreReliability, sourceReliability(core.SourceVectorStore, registry))
	assert.Equal(t, fallbackReliability, sourceReliability(core.SourceFallback, registry))
	assert.Equal(t, 0.9, sourceReliability(core.ToolSource("crunchbase"), registry))
	assert.Equal(t, tools.DefaultReliability, sourceReliability(core.ToolSource("unknown"), registry))
	assert.Equal(t, tools.DefaultReliability, sourceReliability(core.ToolSource("x"), nil))
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0.0, completeness(&core.CompanyMatch{}))

	full := &core.CompanyMatch{
		Name:          "Acme",
		Domain:        "acme.io",
		Description:   "widgets",
		Industry:      "Manufacturing",
		BusinessModel: "B2B",
		EmployeeCount: 50,
		Location:      "Portland",
	}
	assert.Equal(t, 1.0, completeness(full))

	assert.InDelta(t, 2.0/7.0, completeness(&core.CompanyMatch{Name: "Acme", Location: "Portland"}), 1e-9)
}

func TestQueryRelevance(t *testing.T) {
	match := &core.CompanyMatch{
		Name:        "Acme Corp",
		Description: "Acme Corp builds industrial widgets",
	}

	// Both query tokens appear in name and description
	assert.InDelta(t, 1.0, queryRelevance(match, "Acme Corp"), 1e-9)

	// Tokens only in the description
	assert.InDelta(t, 0.3, queryRelevance(&core.CompanyMatch{
		Name:        "Beta Industries",
		Description: "competitor of Acme Corp",
	}, "Acme Corp"), 1e-9)

	// No overlap at all
	assert.Equal(t, 0.0, queryRelevance(&core.CompanyMatch{Name: "Beta"}, "Acme Corp"))
}

func TestFreshnessFactor(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want float64
	}{
		{30 * time.Minute, 1.0},
		{2 * time.Hour, 0.9},
		{3 * 24 * time.Hour, 0.8},
		{14 * 24 * time.Hour, 0.6},
		{90 * 24 * time.Hour, 0.4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, freshnessFactor(tc.age), "age %s", tc.age)
	}
}

func TestConfidence_Bounds(t *testing.T) {
	registry := tools.NewRegistry()
	now := time.Now()

	matches := []*core.CompanyMatch{
		{Name: "Acme Rival", Source: core.SourceVectorStore, DiscoveredAt: now},
		{Source: core.SourceFallback, DiscoveredAt: now.Add(-90 * 24 * time.Hour)},
		{Name: "Full Co", Domain: "full.co", Description: "everything set", Industry: "Software",
			BusinessModel: "B2B", EmployeeCount: 10, Location: "Oslo",
			Source: core.ToolSource("ddg"), DiscoveredAt: now},
	}
	for _, match := range matches {
		score := Confidence(match, "Acme Corp", registry, now)
		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestConfidence_FloorPreventsCollapse(t *testing.T) {
	registry := tools.NewRegistry()
	now := time.Now()

	// Query relevance is exactly zero; without the floor the geometric mean
	// would collapse to zero.
	match := &core.CompanyMatch{
		Name:         "Unrelated Name",
		Source:       core.SourceVectorStore,
		DiscoveredAt: now,
	}
	assert.Greater(t, Confidence(match, "Acme Corp", registry, now), 0.0)
}

func TestConfidence_HigherReliabilityWins(t *testing.T) {
	registry := tools.NewRegistry()
	now := time.Now()

	base := core.CompanyMatch{
		Name:         "Acme Rival",
		Description:  "rival of Acme Corp",
		DiscoveredAt: now,
	}

	vector := base
	vector.Source = core.SourceVectorStore
	fallback := base
	fallback.Source = core.SourceFallback

	assert.Greater(t,
		Confidence(&vector, "Acme Corp", registry, now),
		Confidence(&fallback, "Acme Corp", registry, now))
}
