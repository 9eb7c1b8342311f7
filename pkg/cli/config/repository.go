package config

import (
	"context"

	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/repository/firestore"
	"github.com/lane-lab/kanvas/pkg/repository/memory"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for record store backend configuration
type Repository struct {
	backend   string
	projectID string
	prefix    string
	entity    string
	pageSize  int
}

// Flags returns CLI flags for record store configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Record store backend (firestore or memory)",
			Value:       "memory",
			Category:    "Repository",
			Sources:     cli.EnvVars("KANVAS_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("KANVAS_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix applied to every Firestore collection",
			Category:    "Repository",
			Sources:     cli.EnvVars("KANVAS_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.prefix,
		},
		&cli.StringFlag{
			Name:        "entity",
			Usage:       "Logical name of the record entity type to serve",
			Value:       "task",
			Category:    "Repository",
			Sources:     cli.EnvVars("KANVAS_ENTITY"),
			Destination: &r.entity,
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Record query page size",
			Category:    "Repository",
			Sources:     cli.EnvVars("KANVAS_PAGE_SIZE"),
			Destination: &r.pageSize,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes the record store for the configured backend.
// seed feeds the memory backend only; the caller owns the closer.
func (r *Repository) Configure(ctx context.Context, seed *Seed) (interfaces.RecordStore, func(), error) {
	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, nil, goerr.New("firestore-project-id is required when using firestore backend")
		}

		opts := []firestore.Option{firestore.WithCollectionPrefix(r.prefix)}
		if r.pageSize > 0 {
			opts = append(opts, firestore.WithPageSize(r.pageSize))
		}
		store, err := firestore.New(ctx, r.projectID, types.EntityType(r.entity), opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize firestore record store")
		}

		logging.Default().Info("Using Firestore record store",
			"project_id", r.projectID,
			"collection_prefix", r.prefix,
			"entity", r.entity,
		)
		closer := func() {
			if err := store.Close(); err != nil {
				logging.Default().Error("failed to close record store", "error", err.Error())
			}
		}
		return store, closer, nil

	case "memory":
		logging.Default().Info("Using in-memory record store (development mode)", "entity", r.entity)
		return buildMemoryStore(types.EntityType(r.entity), seed, r.pageSize), func() {}, nil

	default:
		return nil, nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}

func buildMemoryStore(entity types.EntityType, seed *Seed, pageSize int) *memory.Store {
	var opts []memory.Option
	if pageSize > 0 {
		opts = append(opts, memory.WithPageSize(pageSize))
	}
	if seed == nil {
		return memory.New(append(opts, memory.WithDataset(entity, nil, nil))...)
	}

	if seed.Entity != "" {
		entity = types.EntityType(seed.Entity)
	}

	columns := make([]model.DatasetColumn, 0, len(seed.Columns))
	for i, c := range seed.Columns {
		columns = append(columns, model.DatasetColumn{
			Name:        types.FieldName(c.Name),
			DisplayName: c.DisplayName,
			DataType:    types.FieldDataType(c.DataType),
			Order:       i,
		})
	}

	records := make([]*model.Record, 0, len(seed.Records))
	for _, sr := range seed.Records {
		fields := make(map[types.FieldName]model.FieldData, len(sr.Fields))
		for name, value := range sr.Fields {
			fields[types.FieldName(name)] = model.FieldData{Raw: value, Formatted: value}
		}
		records = append(records, &model.Record{
			ID:     types.RecordID(sr.ID),
			Entity: entity,
			Fields: fields,
		})
	}

	options := make([]model.FieldOption, 0, len(seed.Options))
	for _, so := range seed.Options {
		options = append(options, model.FieldOption{
			Field: types.FieldName(so.Field),
			Key:   so.Key,
			Label: so.Label,
			Order: so.Order,
		})
	}

	stages := make([]model.ProcessStage, 0, len(seed.Stages))
	for _, ss := range seed.Stages {
		stages = append(stages, model.ProcessStage{
			ProcessID:         ss.ProcessID,
			ProcessName:       ss.ProcessName,
			ProcessUniqueName: ss.ProcessUniqueName,
			StageID:           ss.StageID,
			StageName:         ss.StageName,
		})
	}

	opts = append(opts,
		memory.WithDataset(entity, columns, records),
		memory.WithOptions(options),
	)
	if len(stages) > 0 {
		opts = append(opts, memory.WithProcessStages(stages))

		current := make(map[types.RecordID]string, len(seed.Current))
		for id, stage := range seed.Current {
			current[types.RecordID(id)] = stage
		}
		opts = append(opts, memory.WithCurrentStages(map[string]map[types.RecordID]string{
			stages[0].ProcessUniqueName: current,
		}))
	}

	return memory.New(opts...)
}
