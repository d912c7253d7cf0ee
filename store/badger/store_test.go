package badger

import (
	"context"
	"testing"

	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCompanies(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	records := []*store.CompanyRecord{
		{Name: "Acme Corp", Industry: "manufacturing", Vector: []float32{0.9, 0.1, 0.0}},
		{Name: "Globex", Industry: "technology", Vector: []float32{0.1, 0.9, 0.0}},
	}

	added, err := s.AddCompanies(ctx, records...)
	require.NoError(t, err)
	require.Len(t, added, 2)

	for _, record := range added {
		assert.NotZero(t, record.Id)
		assert.False(t, record.InsertedAt.IsZero())
	}

	// IDs derive from normalized names
	assert.Equal(t, core.IDFromName("Acme Corp"), added[0].Id)
}

func TestGetCompany(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	added, err := s.AddCompanies(ctx, &store.CompanyRecord{Name: "Acme Corp"})
	require.NoError(t, err)

	t.Run("existing record", func(t *testing.T) {
		record, err := s.GetCompany(ctx, added[0].Id)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", record.Name)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := s.GetCompany(ctx, core.ID(12345))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFindByName(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	_, err = s.AddCompanies(ctx, &store.CompanyRecord{Name: "Acme Corp", Domain: "acme.test"})
	require.NoError(t, err)

	t.Run("exact name", func(t *testing.T) {
		record, err := s.FindByName(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, "acme.test", record.Domain)
	})

	t.Run("name is normalized", func(t *testing.T) {
		record, err := s.FindByName(ctx, "  acme   CORP ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", record.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := s.FindByName(ctx, "Unknown Inc")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSimilaritySearch(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	_, err = s.AddCompanies(ctx,
		&store.CompanyRecord{Name: "Near Inc", Industry: "technology", EmployeeCount: 100, Vector: []float32{0.9, 0.1, 0.0}},
		&store.CompanyRecord{Name: "Close Co", Industry: "technology", EmployeeCount: 5000, Vector: []float32{0.85, 0.15, 0.0}},
		&store.CompanyRecord{Name: "Far Ltd", Industry: "retail", EmployeeCount: 50, Vector: []float32{0.0, 0.1, 0.9}},
		&store.CompanyRecord{Name: "No Vector LLC", Industry: "technology"},
	)
	require.NoError(t, err)

	query := []float32{0.88, 0.12, 0.0}

	t.Run("ranked by similarity", func(t *testing.T) {
		neighbors, err := s.SimilaritySearch(ctx, query, 10, nil)
		require.NoError(t, err)
		require.Len(t, neighbors, 3) // record without vector is skipped

		assert.Equal(t, "Near Inc", neighbors[0].Record.Name)
		for i := 0; i < len(neighbors)-1; i++ {
			assert.GreaterOrEqual(t, neighbors[i].Score, neighbors[i+1].Score)
		}
	})

	t.Run("topK truncation", func(t *testing.T) {
		neighbors, err := s.SimilaritySearch(ctx, query, 1, nil)
		require.NoError(t, err)
		assert.Len(t, neighbors, 1)
	})

	t.Run("industry filter", func(t *testing.T) {
		neighbors, err := s.SimilaritySearch(ctx, query, 10, &store.MetadataFilter{Industry: "retail"})
		require.NoError(t, err)
		require.Len(t, neighbors, 1)
		assert.Equal(t, "Far Ltd", neighbors[0].Record.Name)
	})

	t.Run("employee range filter", func(t *testing.T) {
		neighbors, err := s.SimilaritySearch(ctx, query, 10, &store.MetadataFilter{MinEmployees: 1000})
		require.NoError(t, err)
		require.Len(t, neighbors, 1)
		assert.Equal(t, "Close Co", neighbors[0].Record.Name)
	})

	t.Run("invalid topK", func(t *testing.T) {
		_, err := s.SimilaritySearch(ctx, query, 0, nil)
		assert.ErrorIs(t, err, store.ErrInvalidQuery)
	})
}
