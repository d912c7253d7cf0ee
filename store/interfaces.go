package store

import (
	"context"
	"time"

	"github.com/poiesic/peerscope/core"
)

// CompanyRecord is the stored representation of a company, enriched with a
// vector embedding for similarity search.
type CompanyRecord struct {
	Id            core.ID
	Name          string
	Domain        string
	Description   string
	Industry      string
	BusinessModel string
	EmployeeCount int
	Location      string
	Vector        []float32 // Embedding vector for similarity search
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// Neighbor is one similarity-search hit: a stored company and its score.
type Neighbor struct {
	Record *CompanyRecord
	Score  float32
}

// MetadataFilter restricts similarity-search hits by company metadata.
// Zero-valued fields are inactive.
type MetadataFilter struct {
	Industry      string
	BusinessModel string
	Location      string
	MinEmployees  int
	MaxEmployees  int
}

// Matches reports whether a record satisfies the filter.
func (f *MetadataFilter) Matches(record *CompanyRecord) bool {
	if f == nil {
		return true
	}
	if f.Industry != "" && !equalFold(f.Industry, record.Industry) {
		return false
	}
	if f.BusinessModel != "" && !equalFold(f.BusinessModel, record.BusinessModel) {
		return false
	}
	if f.Location != "" && !containsFold(record.Location, f.Location) {
		return false
	}
	if f.MinEmployees > 0 && record.EmployeeCount < f.MinEmployees {
		return false
	}
	if f.MaxEmployees > 0 && record.EmployeeCount > f.MaxEmployees {
		return false
	}
	return true
}

// VectorStore provides lookup and similarity search over stored companies.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// FindByName resolves a company by normalized name.
	// Returns ErrNotFound if no such company is stored.
	FindByName(ctx context.Context, name string) (*CompanyRecord, error)

	// SimilaritySearch returns up to topK stored companies ranked by cosine
	// similarity against the given vector, restricted by the optional filter.
	// Records without embeddings are skipped.
	SimilaritySearch(ctx context.Context, vector []float32, topK int, filter *MetadataFilter) ([]*Neighbor, error)

	// AddCompanies adds one or more company records to storage.
	// For records with ID=0, derives IDs from the normalized name.
	// Sets InsertedAt timestamp if not already set.
	// Returns the records with IDs and timestamps populated.
	AddCompanies(ctx context.Context, records ...*CompanyRecord) ([]*CompanyRecord, error)

	// GetCompany retrieves a single company record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCompany(ctx context.Context, id core.ID) (*CompanyRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
