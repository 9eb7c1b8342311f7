package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = goerr.New("record not found")

const defaultPageSize = 50

// Store is an in-memory RecordStore used by tests and local serving.
// Reads return deep copies so callers can hold results across refreshes.
type Store struct {
	mu sync.RWMutex

	entity  types.EntityType
	columns []model.DatasetColumn
	records []*model.Record

	pageSize int
	loaded   int

	options       []model.FieldOption
	activeStates  map[types.FieldName]map[string]struct{}
	stages        []model.ProcessStage
	currentStages map[string]map[types.RecordID]string

	updates []model.RecordUpdate
}

// Option configures a Store
type Option func(*Store)

// WithDataset sets the entity type, displayed columns and backing records
func WithDataset(entity types.EntityType, columns []model.DatasetColumn, records []*model.Record) Option {
	return func(s *Store) {
		s.entity = entity
		s.columns = columns
		s.records = records
	}
}

// WithPageSize sets the page size of the simulated paging cursor
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithOptions sets the option values served by FetchOptions
func WithOptions(options []model.FieldOption) Option {
	return func(s *Store) {
		s.options = options
	}
}

// WithActiveStates sets the active-state metadata of status-style fields
func WithActiveStates(states map[types.FieldName]map[string]struct{}) Option {
	return func(s *Store) {
		s.activeStates = states
	}
}

// WithProcessStages sets the business-process-flow stage definitions
func WithProcessStages(stages []model.ProcessStage) Option {
	return func(s *Store) {
		s.stages = stages
	}
}

// WithCurrentStages sets per-process current-stage assignments,
// keyed by process unique name.
func WithCurrentStages(assignments map[string]map[types.RecordID]string) Option {
	return func(s *Store) {
		s.currentStages = assignments
	}
}

// New creates a memory Store. Records without an ID get one assigned.
func New(opts ...Option) *Store {
	s := &Store{pageSize: defaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	for _, rec := range s.records {
		if rec.ID == "" {
			rec.ID = types.RecordID(uuid.NewString())
		}
		if rec.Entity == "" {
			rec.Entity = s.entity
		}
	}
	s.loaded = min(s.pageSize, len(s.records))
	return s
}

func copyRecord(r *model.Record) *model.Record {
	copied := &model.Record{
		ID:     r.ID,
		Entity: r.Entity,
		Fields: make(map[types.FieldName]model.FieldData, len(r.Fields)),
	}
	for name, fd := range r.Fields {
		copied.Fields[name] = fd
	}
	return copied
}

// Snapshot returns the currently loaded page window of the record query
func (s *Store) Snapshot(ctx context.Context) (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*model.Record, 0, s.loaded)
	for _, rec := range s.records[:s.loaded] {
		records = append(records, copyRecord(rec))
	}

	columns := make([]model.DatasetColumn, len(s.columns))
	copy(columns, s.columns)

	return &model.Dataset{
		Entity:      s.entity,
		Columns:     columns,
		Records:     records,
		HasNextPage: s.loaded < len(s.records),
	}, nil
}

// LoadNextPage extends the loaded window by one page
func (s *Store) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded >= len(s.records) {
		return goerr.New("no next page available")
	}
	s.loaded = min(s.loaded+s.pageSize, len(s.records))
	return nil
}

// Refresh re-issues the record query, keeping the loaded page window
func (s *Store) Refresh(ctx context.Context) error {
	return nil
}

// FetchOptions returns option values for the requested fields
func (s *Store) FetchOptions(ctx context.Context, entity types.EntityType, fields []types.FieldName) ([]model.FieldOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requested := make(map[types.FieldName]bool, len(fields))
	for _, f := range fields {
		requested[f] = true
	}

	var out []model.FieldOption
	for _, opt := range s.options {
		if requested[opt.Field] {
			out = append(out, opt)
		}
	}
	return out, nil
}

// FetchActiveStates returns the active option keys of a status field
func (s *Store) FetchActiveStates(ctx context.Context, entity types.EntityType, field types.FieldName) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states, ok := s.activeStates[field]
	if !ok {
		return map[string]struct{}{}, nil
	}
	out := make(map[string]struct{}, len(states))
	for k := range states {
		out[k] = struct{}{}
	}
	return out, nil
}

// FetchProcessStages returns the configured stage definitions
func (s *Store) FetchProcessStages(ctx context.Context, entity types.EntityType) ([]model.ProcessStage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ProcessStage, len(s.stages))
	copy(out, s.stages)
	return out, nil
}

// FetchCurrentStage resolves current stages within the named process
func (s *Store) FetchCurrentStage(ctx context.Context, entity types.EntityType, processUniqueName string, recordIDs []types.RecordID) ([]model.StageAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := s.currentStages[processUniqueName]
	out := make([]model.StageAssignment, 0, len(recordIDs))
	for _, id := range recordIDs {
		if stage, ok := assignments[id]; ok {
			out = append(out, model.StageAssignment{RecordID: id, StageName: stage})
		}
	}
	return out, nil
}

// UpdateRecord applies a single-field update. Option-set fields resolve
// the written key to its label for the formatted value, and within the
// primary process a stage write moves the record's current stage.
func (s *Store) UpdateRecord(ctx context.Context, update model.RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findRecord(update.RecordID)
	if rec == nil {
		return goerr.Wrap(ErrNotFound, "cannot update record", goerr.V("record_id", update.RecordID))
	}

	s.updates = append(s.updates, update)

	if assignments, ok := s.currentStages[update.Field.String()]; ok {
		assignments[update.RecordID] = update.Value
		return nil
	}

	formatted := update.Value
	for _, opt := range s.options {
		if opt.Field == update.Field && opt.Key == update.Value {
			formatted = opt.Label
			break
		}
	}

	if update.Value == "" {
		rec.Fields[update.Field] = model.FieldData{}
		return nil
	}
	rec.Fields[update.Field] = model.FieldData{Raw: update.Value, Formatted: formatted}
	return nil
}

func (s *Store) findRecord(id types.RecordID) *model.Record {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// Updates returns the persistence updates issued so far
func (s *Store) Updates() []model.RecordUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RecordUpdate, len(s.updates))
	copy(out, s.updates)
	return out
}
