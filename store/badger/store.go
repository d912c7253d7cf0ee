package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/store"
)

// Store implements store.VectorStore on top of a BadgerDB instance.
// Similarity search is a full scan over stored company records; the engine's
// working sets are small enough that an approximate index is not warranted.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ store.VectorStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed vector store at the specified path.
// Creates the directory if it doesn't exist.
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// AddCompanies adds one or more company records to storage.
func (s *Store) AddCompanies(ctx context.Context, records ...*store.CompanyRecord) ([]*store.CompanyRecord, error) {
	err := s.withTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Use name-based ID if not set
			if record.Id == 0 {
				record.Id = core.IDFromName(record.Name)
			}

			// Set timestamps
			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}
			record.UpdatedAt = time.Now().UTC()

			// Store primary record
			key := makeCompanyKey(record.Id)
			if err := tx.Set(key, store.MarshalCompanyRecord(record)); err != nil {
				return err
			}

			// Store name index
			nameKey := makeCompanyNameKey(record.Name)
			if err := tx.Set(nameKey, store.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetCompany retrieves a single company record by ID.
func (s *Store) GetCompany(ctx context.Context, id core.ID) (*store.CompanyRecord, error) {
	var result *store.CompanyRecord
	err := s.withTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCompany(tx, makeCompanyKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return store.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindByName resolves a company by normalized name via the name index.
func (s *Store) FindByName(ctx context.Context, name string) (*store.CompanyRecord, error) {
	var result *store.CompanyRecord
	err := s.withTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCompanyNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return store.ErrNotFound
			}
			return err
		}

		var id core.ID
		err = item.Value(func(val []byte) error {
			id, err = store.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readCompany(tx, makeCompanyKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return store.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// SimilaritySearch returns up to topK companies ranked by cosine similarity.
func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, topK int, filter *store.MetadataFilter) ([]*store.Neighbor, error) {
	if topK < 1 {
		return nil, store.ErrInvalidQuery
	}

	var results []*store.Neighbor

	err := s.withTx(func(tx *badger.Txn) error {
		// Iterate through all company records
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(companyRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *store.CompanyRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = store.UnmarshalCompanyRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			if !filter.Matches(record) {
				continue
			}

			results = append(results, &store.Neighbor{
				Record: record,
				Score:  cosineSimilarity(vector, record.Vector),
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *store.Neighbor) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// readCompany reads a company record from the transaction.
func readCompany(tx *badger.Txn, key []byte) (*store.CompanyRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *store.CompanyRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = store.UnmarshalCompanyRecord(val)
		return err
	})
	return record, err
}

// cosineSimilarity calculates the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
