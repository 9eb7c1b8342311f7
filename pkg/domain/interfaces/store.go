package interfaces

import (
	"context"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// RecordStore defines the interface to the backing record store.
// Implementations must be safe for interleaved calls from one board
// session; reads return copies that the engine may hold across refreshes.
type RecordStore interface {
	// Snapshot returns the current record query result, including the
	// paging cursor state.
	Snapshot(ctx context.Context) (*model.Dataset, error)

	// LoadNextPage requests the next page of the current record query.
	// Subsequent Snapshot calls include the newly loaded records.
	LoadNextPage(ctx context.Context) error

	// Refresh re-issues the current record query and its next-page
	// continuation.
	Refresh(ctx context.Context) error

	// FetchOptions retrieves option values for the given categorical
	// fields, scoped to the entity type.
	FetchOptions(ctx context.Context, entity types.EntityType, fields []types.FieldName) ([]model.FieldOption, error)

	// FetchActiveStates retrieves the option keys flagged active in a
	// status-style field's state metadata.
	FetchActiveStates(ctx context.Context, entity types.EntityType, field types.FieldName) (map[string]struct{}, error)

	// FetchProcessStages retrieves the stage definitions of all business
	// process flows configured for the entity type.
	FetchProcessStages(ctx context.Context, entity types.EntityType) ([]model.ProcessStage, error)

	// FetchCurrentStage resolves the current stage of each record within
	// the named process.
	FetchCurrentStage(ctx context.Context, entity types.EntityType, processUniqueName string, recordIDs []types.RecordID) ([]model.StageAssignment, error)

	// UpdateRecord persists a single-field update
	UpdateRecord(ctx context.Context, update model.RecordUpdate) error
}
