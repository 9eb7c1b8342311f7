package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fieldDocument struct {
	Raw       any    `firestore:"raw"`
	Formatted string `firestore:"formatted"`
}

type recordDocument struct {
	ID     string                   `firestore:"id"`
	Entity string                   `firestore:"entity"`
	Fields map[string]fieldDocument `firestore:"fields"`
}

type columnDocument struct {
	Name        string `firestore:"name"`
	DisplayName string `firestore:"display_name"`
	DataType    string `firestore:"data_type"`
	Order       int    `firestore:"order"`
}

func recordToModel(doc *recordDocument) *model.Record {
	rec := &model.Record{
		ID:     types.RecordID(doc.ID),
		Entity: types.EntityType(doc.Entity),
		Fields: make(map[types.FieldName]model.FieldData, len(doc.Fields)),
	}
	for name, fd := range doc.Fields {
		rec.Fields[types.FieldName(name)] = model.FieldData{
			Raw:       rawToModel(fd.Raw),
			Formatted: fd.Formatted,
		}
	}
	return rec
}

// rawToModel maps stored raw values back to their domain shapes.
// Reference maps and timestamps survive the round trip; everything else
// stays a scalar.
func rawToModel(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		return model.ReferenceValue{
			ID:     types.RecordID(asString(v["id"])),
			Name:   asString(v["name"]),
			Entity: types.EntityType(asString(v["entity"])),
		}
	case []any:
		refs := make([]model.ReferenceValue, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return raw
			}
			refs = append(refs, model.ReferenceValue{
				ID:     types.RecordID(asString(m["id"])),
				Name:   asString(m["name"]),
				Entity: types.EntityType(asString(m["entity"])),
			})
		}
		return refs
	case time.Time:
		return v
	default:
		return raw
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func columnToModel(doc columnDocument) model.DatasetColumn {
	return model.DatasetColumn{
		Name:        types.FieldName(doc.Name),
		DisplayName: doc.DisplayName,
		DataType:    types.FieldDataType(doc.DataType),
		Order:       doc.Order,
	}
}

// Snapshot returns the loaded page window of the record query. The
// first call primes the window with one page.
func (s *Store) Snapshot(ctx context.Context) (*model.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		if err := s.primeLocked(ctx); err != nil {
			return nil, err
		}
	}

	records := make([]*model.Record, 0, len(s.records))
	for i := range s.records {
		records = append(records, recordToModel(&s.records[i]))
	}

	columns := make([]model.DatasetColumn, 0, len(s.columns))
	for _, c := range s.columns {
		columns = append(columns, columnToModel(c))
	}

	return &model.Dataset{
		Entity:      s.entity,
		Columns:     columns,
		Records:     records,
		HasNextPage: s.hasNext,
	}, nil
}

// LoadNextPage extends the loaded window by one page
func (s *Store) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		return s.primeLocked(ctx)
	}
	if !s.hasNext {
		return goerr.New("no next page available")
	}
	return s.loadPageLocked(ctx)
}

// Refresh re-issues the record query from the top, reloading as many
// pages as were loaded before.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages := 1
	if s.pageSize > 0 && len(s.records) > s.pageSize {
		pages = (len(s.records) + s.pageSize - 1) / s.pageSize
	}

	s.records = nil
	s.cursor = nil
	s.hasNext = false
	s.primed = false

	if err := s.primeLocked(ctx); err != nil {
		return err
	}
	for i := 1; i < pages && s.hasNext; i++ {
		if err := s.loadPageLocked(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) primeLocked(ctx context.Context) error {
	if err := s.loadColumnsLocked(ctx); err != nil {
		return err
	}
	if err := s.loadPageLocked(ctx); err != nil {
		return err
	}
	s.primed = true
	return nil
}

func (s *Store) loadColumnsLocked(ctx context.Context) error {
	iter := s.client.Collection(s.columnsCollection()).
		Where("entity", "==", s.entity.String()).
		OrderBy("order", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var columns []columnDocument
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate record columns", goerr.V("entity", s.entity))
		}

		var colDoc columnDocument
		if err := doc.DataTo(&colDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal record column")
		}
		columns = append(columns, colDoc)
	}

	s.columns = columns
	return nil
}

func (s *Store) loadPageLocked(ctx context.Context) error {
	query := s.client.Collection(s.recordsCollection()).
		Where("entity", "==", s.entity.String()).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Limit(s.pageSize)
	if s.cursor != nil {
		query = query.StartAfter(s.cursor)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var loaded int
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate records", goerr.V("entity", s.entity))
		}

		var recDoc recordDocument
		if err := doc.DataTo(&recDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal record", goerr.V("doc", doc.Ref.ID))
		}

		s.records = append(s.records, recDoc)
		s.cursor = doc
		loaded++
	}

	s.hasNext = loaded == s.pageSize
	return nil
}

// UpdateRecord writes a single field of one record document. An empty
// value deletes the field, which the projection reads as blank.
// Option-set fields resolve the written key to its label for the
// formatted value, as the projection groups on formatted text.
func (s *Store) UpdateRecord(ctx context.Context, update model.RecordUpdate) error {
	docRef := s.client.Collection(s.recordsCollection()).Doc(update.RecordID.String())

	value := any(fieldDocument{Raw: update.Value, Formatted: s.formattedValue(ctx, update)})
	if update.Value == "" {
		value = firestore.Delete
	}

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "fields." + update.Field.String(), Value: value},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "record not found", goerr.V("record_id", update.RecordID))
		}
		return goerr.Wrap(err, "failed to update record",
			goerr.V("record_id", update.RecordID), goerr.V("field", update.Field))
	}
	return nil
}

// formattedValue maps an option key to its display label. Fields
// without a matching option keep the raw value as their formatted text.
func (s *Store) formattedValue(ctx context.Context, update model.RecordUpdate) string {
	if update.Value == "" {
		return ""
	}
	options, err := s.FetchOptions(ctx, s.entity, []types.FieldName{update.Field})
	if err != nil {
		return update.Value
	}
	for _, opt := range options {
		if opt.Key == update.Value {
			return opt.Label
		}
	}
	return update.Value
}
