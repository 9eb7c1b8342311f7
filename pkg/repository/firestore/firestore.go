package firestore

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = goerr.New("document not found")

const defaultPageSize = 250

// Store is the Firestore-backed RecordStore. One Store serves one
// entity type; the record query is paged through a document-ID cursor
// kept on the Store.
type Store struct {
	client           *firestore.Client
	collectionPrefix string
	entity           types.EntityType
	pageSize         int

	mu      sync.Mutex
	columns []columnDocument
	records []recordDocument
	cursor  *firestore.DocumentSnapshot
	hasNext bool
	primed  bool
}

var _ interfaces.RecordStore = &Store{}

// Option configures a Store
type Option func(*Store)

// WithCollectionPrefix namespaces every collection the Store touches
func WithCollectionPrefix(prefix string) Option {
	return func(s *Store) {
		s.collectionPrefix = prefix
	}
}

// WithPageSize sets the record query page size
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates a Store for the given project and entity type
func New(ctx context.Context, projectID string, entity types.EntityType, opts ...Option) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	s := &Store{
		client:   client,
		entity:   entity,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying client
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Store) collection(name string) string {
	if s.collectionPrefix != "" {
		return s.collectionPrefix + "_" + name
	}
	return name
}

func (s *Store) recordsCollection() string       { return s.collection("records") }
func (s *Store) columnsCollection() string       { return s.collection("record_columns") }
func (s *Store) optionsCollection() string       { return s.collection("field_options") }
func (s *Store) activeStatesCollection() string  { return s.collection("active_states") }
func (s *Store) processStagesCollection() string { return s.collection("process_stages") }
func (s *Store) currentStagesCollection() string { return s.collection("current_stages") }
