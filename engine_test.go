package peerscope

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/peerscope/ai/mock"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/store"
	"github.com/poiesic/peerscope/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine("", WithInMemoryStore(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("creates on-disk store", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "peerscope_db")
		engine, err := NewEngine(dir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, engine)
		defer engine.Close()

		assert.NotNil(t, engine.Registry())
		assert.NotNil(t, engine.Breaker())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

		engine, err := NewEngine(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestEngine_SeedAndDiscover(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	seeded, err := engine.Seed(ctx,
		&store.CompanyRecord{
			Name:          "Acme Corp",
			Description:   "industrial widget manufacturing",
			Industry:      "Manufacturing",
			BusinessModel: "B2B",
			EmployeeCount: 500,
			Location:      "Portland",
			Vector:        []float32{1, 0, 0},
		},
		&store.CompanyRecord{
			Name:          "Beta Industries",
			Description:   "industrial widget manufacturing and supply",
			Industry:      "Manufacturing",
			BusinessModel: "B2B",
			EmployeeCount: 300,
			Location:      "Portland",
			Vector:        []float32{0.95, 0.05, 0},
		},
	)
	require.NoError(t, err)
	require.Len(t, seeded, 2)
	for _, record := range seeded {
		assert.NotZero(t, record.Id)
	}

	req := core.NewDiscoveryRequest("Acme Corp")
	req.UseSearchTools = false
	req.MinSimilarityScore = 0

	result, err := engine.Discover(ctx, req)
	require.NoError(t, err)

	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "Beta Industries", result.Matches[0].Name)
	assert.Equal(t, core.SourceVectorStore, result.Matches[0].Source)
}

func TestEngine_SeedEmbedsMissingVectors(t *testing.T) {
	engine := newTestEngine(t)

	seeded, err := engine.Seed(context.Background(), &store.CompanyRecord{
		Name:        "Vectorless Co",
		Description: "record without an embedding",
	})
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.NotEmpty(t, seeded[0].Vector, "descriptions are embedded during seeding")
}

func TestEngine_RegisteredToolsParticipate(t *testing.T) {
	engine := newTestEngine(t)

	engine.RegisterTool("static", &staticTool{results: []tools.RawResult{
		{Name: "Gamma Works", Description: "competitor of Acme Corp"},
	}})

	result, err := engine.Discover(context.Background(), core.NewDiscoveryRequest("Acme Corp"))
	require.NoError(t, err)

	found := false
	for _, match := range result.Matches {
		if match.Name == "Gamma Works" {
			found = true
			assert.Equal(t, core.ToolSource("static"), match.Source)
		}
	}
	assert.True(t, found)
}

// staticTool returns fixed results for every query.
type staticTool struct {
	results []tools.RawResult
}

func (s *staticTool) Search(ctx context.Context, query string, opts tools.SearchOptions) ([]tools.RawResult, error) {
	return s.results, nil
}
