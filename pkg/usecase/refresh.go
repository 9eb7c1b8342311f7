package usecase

import (
	"context"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/service/board"
	"github.com/lane-lab/kanvas/pkg/service/catalog"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Refresh re-issues the record query, re-discovers the view catalog and
// rebuilds the board from scratch. The previously active view is kept
// when it still exists in the new catalog. Store fetches run outside
// the session lock so the loading flag is observable while they last;
// the new state is swapped in atomically afterwards.
func (b *Board) Refresh(ctx context.Context) error {
	b.setLoading(true)
	defer b.setLoading(false)

	if err := b.store.Refresh(ctx); err != nil {
		return goerr.Wrap(err, "failed to refresh record query")
	}
	ds, capped, err := b.loadAll(ctx)
	if err != nil {
		return err
	}
	discovery := b.catalog.Discover(ctx, ds)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.dataset = ds
	b.views = discovery.Views
	b.stageByRecord = discovery.StageByRecord
	if capped {
		b.notifyLocked("showing first records only; narrow the query to see everything")
	}

	var previous string
	if b.hasActive {
		previous = b.active.Key.String()
	}
	active, ok := catalog.SelectView(b.views, b.cfg.DefaultView, types.FieldName(previous))
	b.active = active
	b.hasActive = ok
	if !ok {
		b.projection = board.Projection{}
		b.built = board.Board{}
		return nil
	}

	b.rebuildLocked(ctx)
	return nil
}

func (b *Board) setLoading(v bool) {
	b.mu.Lock()
	b.loading = v
	b.mu.Unlock()
}

// loadAll drains the paging cursor until the dataset is complete or the
// auto-load cap is reached.
func (b *Board) loadAll(ctx context.Context) (*model.Dataset, bool, error) {
	ds, err := b.store.Snapshot(ctx)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to snapshot record query")
	}

	for ds.HasNextPage && len(ds.Records) < maxAutoLoadRecords {
		if err := b.store.LoadNextPage(ctx); err != nil {
			return nil, false, goerr.Wrap(err, "failed to load next record page")
		}
		if ds, err = b.store.Snapshot(ctx); err != nil {
			return nil, false, goerr.Wrap(err, "failed to snapshot record query")
		}
	}

	if ds.HasNextPage {
		logging.From(ctx).Warn("record auto-load capped, board shows a partial dataset",
			"loaded", len(ds.Records), "cap", maxAutoLoadRecords)
	}

	return ds, ds.HasNextPage, nil
}

// SelectView switches the active view by catalog key and rebuilds the
// board. Filters, sort and search survive the switch.
func (b *Board) SelectView(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, v := range b.views {
		if v.Key.String() == key {
			b.active = v
			b.hasActive = true
			b.rebuildLocked(ctx)
			return nil
		}
	}
	return goerr.Wrap(ErrViewNotFound, "cannot select view", goerr.V(ViewKeyKey, key))
}

// rebuildLocked re-derives cards, filtered order and column buckets from
// the current dataset, active view and filter state.
func (b *Board) rebuildLocked(ctx context.Context) {
	if b.dataset == nil || !b.hasActive {
		return
	}

	b.projection = b.projector.Project(b.dataset, b.active, b.stageByRecord)
	cards := b.pipeline.Apply(b.projection.Cards, b.filters, b.search, b.sort)
	b.built = board.BuildColumns(cards, b.projection.BlankGroup, b.active)

	if b.built.Dropped > 0 {
		logging.From(ctx).Warn("cards resolved to no column and were dropped",
			"dropped", b.built.Dropped, "view", b.active.Key)
	}
}
