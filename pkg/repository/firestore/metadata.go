package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type optionDocument struct {
	Entity string `firestore:"entity"`
	Field  string `firestore:"field"`
	Key    string `firestore:"key"`
	Label  string `firestore:"label"`
	Order  int    `firestore:"order"`
}

type activeStateDocument struct {
	Entity string   `firestore:"entity"`
	Field  string   `firestore:"field"`
	Keys   []string `firestore:"keys"`
}

type processStageDocument struct {
	Entity            string `firestore:"entity"`
	ProcessID         string `firestore:"process_id"`
	ProcessName       string `firestore:"process_name"`
	ProcessUniqueName string `firestore:"process_unique_name"`
	StageID           string `firestore:"stage_id"`
	StageName         string `firestore:"stage_name"`
	Order             int    `firestore:"order"`
}

type stageAssignmentDocument struct {
	Entity            string `firestore:"entity"`
	ProcessUniqueName string `firestore:"process_unique_name"`
	RecordID          string `firestore:"record_id"`
	StageName         string `firestore:"stage_name"`
}

// FetchOptions retrieves option values for the requested categorical
// fields. Field filtering happens client-side so one query serves any
// number of fields.
func (s *Store) FetchOptions(ctx context.Context, entity types.EntityType, fields []types.FieldName) ([]model.FieldOption, error) {
	requested := make(map[string]bool, len(fields))
	for _, f := range fields {
		requested[f.String()] = true
	}

	iter := s.client.Collection(s.optionsCollection()).
		Where("entity", "==", entity.String()).
		Documents(ctx)
	defer iter.Stop()

	var options []model.FieldOption
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate field options", goerr.V("entity", entity))
		}

		var optDoc optionDocument
		if err := doc.DataTo(&optDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal field option")
		}
		if !requested[optDoc.Field] {
			continue
		}

		options = append(options, model.FieldOption{
			Field: types.FieldName(optDoc.Field),
			Key:   optDoc.Key,
			Label: optDoc.Label,
			Order: optDoc.Order,
		})
	}
	return options, nil
}

// FetchActiveStates retrieves the active option keys of a status field.
// A missing state document means no option is active.
func (s *Store) FetchActiveStates(ctx context.Context, entity types.EntityType, field types.FieldName) (map[string]struct{}, error) {
	docID := entity.String() + ":" + field.String()
	doc, err := s.client.Collection(s.activeStatesCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return map[string]struct{}{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get active states",
			goerr.V("entity", entity), goerr.V("field", field))
	}

	var stateDoc activeStateDocument
	if err := doc.DataTo(&stateDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal active states", goerr.V("field", field))
	}

	active := make(map[string]struct{}, len(stateDoc.Keys))
	for _, key := range stateDoc.Keys {
		active[key] = struct{}{}
	}
	return active, nil
}

// FetchProcessStages retrieves the stage definitions of every business
// process flow configured for the entity type, in stored order.
func (s *Store) FetchProcessStages(ctx context.Context, entity types.EntityType) ([]model.ProcessStage, error) {
	iter := s.client.Collection(s.processStagesCollection()).
		Where("entity", "==", entity.String()).
		OrderBy("order", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var stages []model.ProcessStage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate process stages", goerr.V("entity", entity))
		}

		var stageDoc processStageDocument
		if err := doc.DataTo(&stageDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal process stage")
		}

		stages = append(stages, model.ProcessStage{
			ProcessID:         stageDoc.ProcessID,
			ProcessName:       stageDoc.ProcessName,
			ProcessUniqueName: stageDoc.ProcessUniqueName,
			StageID:           stageDoc.StageID,
			StageName:         stageDoc.StageName,
		})
	}
	return stages, nil
}

// FetchCurrentStage resolves the current stage of each requested record
// within the named process.
func (s *Store) FetchCurrentStage(ctx context.Context, entity types.EntityType, processUniqueName string, recordIDs []types.RecordID) ([]model.StageAssignment, error) {
	requested := make(map[string]bool, len(recordIDs))
	for _, id := range recordIDs {
		requested[id.String()] = true
	}

	iter := s.client.Collection(s.currentStagesCollection()).
		Where("entity", "==", entity.String()).
		Where("process_unique_name", "==", processUniqueName).
		Documents(ctx)
	defer iter.Stop()

	var assignments []model.StageAssignment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate current stages",
				goerr.V("entity", entity), goerr.V("process", processUniqueName))
		}

		var asgDoc stageAssignmentDocument
		if err := doc.DataTo(&asgDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal current stage")
		}
		if !requested[asgDoc.RecordID] {
			continue
		}

		assignments = append(assignments, model.StageAssignment{
			RecordID:  types.RecordID(asgDoc.RecordID),
			StageName: asgDoc.StageName,
		})
	}
	return assignments, nil
}
