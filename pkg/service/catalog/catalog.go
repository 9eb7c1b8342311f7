package catalog

import (
	"context"
	"sort"

	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Catalog discovers the selectable views for the current record type.
// Every fetch failure degrades to an empty contribution for that view
// source; discovery itself never fails.
type Catalog struct {
	store      interfaces.RecordStore
	stageOrder map[string]int
}

// Option configures a Catalog
type Option func(*Catalog)

// WithStageOrder supplies the externally configured stage-order table
func WithStageOrder(orderTable map[string]int) Option {
	return func(c *Catalog) {
		c.stageOrder = orderTable
	}
}

// New creates a Catalog over the given record store
func New(store interfaces.RecordStore, opts ...Option) *Catalog {
	c := &Catalog{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Discovery is the result of one catalog refresh. StageByRecord holds the
// current stage of each record within the primary process, used by the
// projector for BPF views.
type Discovery struct {
	Views         []model.ViewDefinition
	StageByRecord map[types.RecordID]string
}

// Discover produces the ordered view list for the dataset's entity type.
// Option-set views come first, BPF views are appended after them.
func (c *Catalog) Discover(ctx context.Context, ds *model.Dataset) *Discovery {
	var (
		optionViews   []model.ViewDefinition
		bpfViews      []model.ViewDefinition
		stageByRecord map[types.RecordID]string
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		optionViews = c.optionSetViews(egCtx, ds)
		return nil
	})
	eg.Go(func() error {
		bpfViews, stageByRecord = c.processViews(egCtx, ds)
		return nil
	})
	// both sources fail soft, so Wait cannot return an error
	_ = eg.Wait()

	return &Discovery{
		Views:         append(optionViews, bpfViews...),
		StageByRecord: stageByRecord,
	}
}

func (c *Catalog) optionSetViews(ctx context.Context, ds *model.Dataset) []model.ViewDefinition {
	cats := ds.CategoricalColumns()
	if len(cats) == 0 {
		return nil
	}

	fields := make([]types.FieldName, 0, len(cats))
	for _, col := range cats {
		fields = append(fields, col.Name)
	}

	options, err := c.store.FetchOptions(ctx, ds.Entity, fields)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch option sets, skipping option-set views",
			"entity", ds.Entity, "error", err.Error())
		return nil
	}

	byField := make(map[types.FieldName][]model.FieldOption)
	for _, opt := range options {
		byField[opt.Field] = append(byField[opt.Field], opt)
	}

	views := make([]model.ViewDefinition, 0, len(cats))
	for _, col := range cats {
		opts := byField[col.Name]
		if len(opts) == 0 {
			continue
		}

		if col.DataType == types.FieldDataTypeStatus {
			active, err := c.store.FetchActiveStates(ctx, ds.Entity, col.Name)
			if err != nil {
				logging.From(ctx).Warn("failed to fetch active states, skipping view",
					"entity", ds.Entity, "field", col.Name, "error", err.Error())
				continue
			}
			opts = filterActive(opts, active)
		}

		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Order < opts[j].Order })

		columns := make([]model.ColumnDefinition, 0, len(opts))
		for _, opt := range opts {
			columns = append(columns, model.ColumnDefinition{
				ID:    types.ColumnID(opt.Key),
				Title: opt.Label,
				Order: opt.Order,
			})
		}

		views = append(views, model.ViewDefinition{
			Key:        col.Name,
			Text:       col.DisplayName,
			Type:       types.ViewTypeOptionSet,
			UniqueName: col.Name,
			Columns:    columns,
		})
	}
	return views
}

func (c *Catalog) processViews(ctx context.Context, ds *model.Dataset) ([]model.ViewDefinition, map[types.RecordID]string) {
	stages, err := c.store.FetchProcessStages(ctx, ds.Entity)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch process stages, skipping BPF views",
			"entity", ds.Entity, "error", err.Error())
		return nil, nil
	}
	if len(stages) == 0 {
		return nil, nil
	}

	processOrder, grouped := model.GroupStagesByProcess(stages)

	views := make([]model.ViewDefinition, 0, len(processOrder))
	var stageByRecord map[types.RecordID]string

	for i, processID := range processOrder {
		processStages := grouped[processID]
		first := processStages[0]

		views = append(views, model.ViewDefinition{
			Key:               types.FieldName("bpf:" + first.ProcessUniqueName),
			Text:              first.ProcessName,
			Type:              types.ViewTypeBPF,
			UniqueName:        types.FieldName(first.ProcessUniqueName),
			ProcessUniqueName: first.ProcessUniqueName,
			Columns:           model.BuildStageColumns(processStages, c.stageOrder),
		})

		// current stages are resolved for the primary process only
		if i == 0 {
			stageByRecord = c.currentStages(ctx, ds, first.ProcessUniqueName)
		}
	}
	return views, stageByRecord
}

func (c *Catalog) currentStages(ctx context.Context, ds *model.Dataset, processUniqueName string) map[types.RecordID]string {
	assignments, err := c.store.FetchCurrentStage(ctx, ds.Entity, processUniqueName, ds.RecordIDs())
	if err != nil {
		logging.From(ctx).Warn("failed to fetch current stages",
			"entity", ds.Entity, "process", processUniqueName, "error", err.Error())
		return nil
	}

	stageByRecord := make(map[types.RecordID]string, len(assignments))
	for _, a := range assignments {
		stageByRecord[a.RecordID] = a.StageName
	}
	return stageByRecord
}

func filterActive(opts []model.FieldOption, active map[string]struct{}) []model.FieldOption {
	out := make([]model.FieldOption, 0, len(opts))
	for _, opt := range opts {
		if _, ok := active[opt.Key]; ok {
			out = append(out, opt)
		}
	}
	return out
}

// SelectView picks the active view after a catalog refresh: a configured
// default name wins, then the previously active view by key, then the
// first catalog entry.
func SelectView(views []model.ViewDefinition, defaultName string, previousKey types.FieldName) (model.ViewDefinition, bool) {
	if len(views) == 0 {
		return model.ViewDefinition{}, false
	}

	if defaultName != "" {
		for _, v := range views {
			if v.Text == defaultName || v.Key.String() == defaultName {
				return v, true
			}
		}
	}
	if previousKey != "" {
		for _, v := range views {
			if v.Key == previousKey {
				return v, true
			}
		}
	}
	return views[0], true
}
