package discovery

import (
	"testing"

	"github.com/poiesic/peerscope/core"
	"github.com/stretchr/testify/assert"
)

func TestSimilarity_ExactMatchEverywhere(t *testing.T) {
	a := &core.CompanyMatch{
		Industry:      "Software",
		BusinessModel: "B2B",
		EmployeeCount: 100,
		Location:      "Berlin, Germany",
		Description:   "cloud infrastructure monitoring platform",
	}
	b := &core.CompanyMatch{
		Industry:      "Software",
		BusinessModel: "B2B",
		EmployeeCount: 100,
		Location:      "Berlin, Germany",
		Description:   "cloud infrastructure monitoring platform",
	}

	assert.InDelta(t, 1.0, Similarity(a, b), 1e-9)
}

func TestSimilarity_RenormalizesMissingFields(t *testing.T) {
	// Only industry is computable on both sides: its weight is renormalized
	// to 1, so an exact match scores 1.0 overall.
	a := &core.CompanyMatch{Industry: "Fintech"}
	b := &core.CompanyMatch{Industry: "Fintech", Location: "London"}

	assert.InDelta(t, 1.0, Similarity(a, b), 1e-9)
}

func TestSimilarity_NothingComputable(t *testing.T) {
	a := &core.CompanyMatch{Name: "Alpha"}
	b := &core.CompanyMatch{Name: "Beta"}

	assert.Equal(t, neutralSimilarity, Similarity(a, b))
}

func TestCategorySimilarity(t *testing.T) {
	t.Run("exact match ignores case", func(t *testing.T) {
		score, ok := categorySimilarity("SaaS", "saas", industryGroups)
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})

	t.Run("same group", func(t *testing.T) {
		score, ok := categorySimilarity("Software", "Cloud Technology", industryGroups)
		assert.True(t, ok)
		assert.Equal(t, 0.8, score)
	})

	t.Run("different groups fall back to token jaccard", func(t *testing.T) {
		score, ok := categorySimilarity("Retail Banking", "Banking", industryGroups)
		assert.True(t, ok)
		// One shared token of two -> jaccard 0.5, scaled by 0.6
		assert.InDelta(t, 0.3, score, 1e-9)
	})

	t.Run("missing side not computable", func(t *testing.T) {
		_, ok := categorySimilarity("", "Software", industryGroups)
		assert.False(t, ok)
	})
}

func TestSizeSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		score, ok := sizeSimilarity(500, 500)
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})

	t.Run("order of magnitude apart", func(t *testing.T) {
		score, ok := sizeSimilarity(100, 1000)
		assert.True(t, ok)
		assert.InDelta(t, 1.0-1.0/3.0, score, 1e-9)
	})

	t.Run("three orders of magnitude floors at zero", func(t *testing.T) {
		score, ok := sizeSimilarity(10, 100000)
		assert.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("zero means missing", func(t *testing.T) {
		_, ok := sizeSimilarity(0, 500)
		assert.False(t, ok)
	})

	t.Run("negative yields neutral", func(t *testing.T) {
		score, ok := sizeSimilarity(-1, 500)
		assert.True(t, ok)
		assert.Equal(t, 0.5, score)
	})
}

func TestLocationSimilarity(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		score, ok := locationSimilarity("Berlin, Germany", "berlin, germany")
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})

	t.Run("same region", func(t *testing.T) {
		score, ok := locationSimilarity("London", "Berlin")
		assert.True(t, ok)
		assert.Equal(t, 0.7, score)
	})

	t.Run("shared city token", func(t *testing.T) {
		score, ok := locationSimilarity("Springfield, IL", "Springfield, MO")
		assert.True(t, ok)
		assert.Equal(t, 0.5, score)
	})

	t.Run("unrelated", func(t *testing.T) {
		score, ok := locationSimilarity("Lagos", "Oslo")
		assert.True(t, ok)
		assert.Equal(t, 0.1, score)
	})

	t.Run("missing side not computable", func(t *testing.T) {
		_, ok := locationSimilarity("Berlin", "  ")
		assert.False(t, ok)
	})
}

func TestDescriptionOverlap(t *testing.T) {
	t.Run("identical token sets", func(t *testing.T) {
		score, ok := descriptionOverlap("payments for online retailers", "online payments for retailers")
		assert.True(t, ok)
		assert.Equal(t, 1.0, score)
	})

	t.Run("disjoint token sets", func(t *testing.T) {
		score, ok := descriptionOverlap("cloud monitoring", "grocery delivery")
		assert.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("stop words only is neutral", func(t *testing.T) {
		score, ok := descriptionOverlap("the of and", "cloud monitoring")
		assert.True(t, ok)
		assert.Equal(t, 0.5, score)
	})

	t.Run("missing side not computable", func(t *testing.T) {
		_, ok := descriptionOverlap("", "cloud monitoring")
		assert.False(t, ok)
	})
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := []*core.CompanyMatch{
		{Industry: "Software", BusinessModel: "B2B", EmployeeCount: 10, Location: "Oslo", Description: "a b c"},
		{Industry: "Grocery", BusinessModel: "B2C", EmployeeCount: 100000, Location: "Tokyo", Description: "x y z"},
		{},
		{Industry: "Fintech"},
	}
	for _, a := range pairs {
		for _, b := range pairs {
			score := Similarity(a, b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}
