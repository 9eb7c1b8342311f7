package usecase

import (
	"context"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SetQuickFilter sets or replaces the predicate value of one
// quick-filter field. An empty value clears that field's filter.
func (b *Board) SetQuickFilter(ctx context.Context, field types.FieldName, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if value == "" {
		delete(b.filters, field)
	} else {
		b.filters[field] = value
	}
	b.rebuildLocked(ctx)
}

// ClearFilters removes every active quick filter
func (b *Board) ClearFilters(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters = model.FilterState{}
	b.rebuildLocked(ctx)
}

// ApplyPreset replaces the whole filter state with the named preset's
// values. An empty id resets every filter to its cleared state.
func (b *Board) ApplyPreset(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id == "" {
		b.filters = model.FilterState{}
		b.rebuildLocked(ctx)
		return nil
	}

	preset, ok := b.cfg.PresetByID(id)
	if !ok {
		return goerr.Wrap(ErrPresetNotFound, "cannot apply preset", goerr.V("preset_id", id))
	}

	b.filters = preset.Values.Clone()
	b.rebuildLocked(ctx)
	return nil
}

// SetSort sets the single active sort key and direction. A zero-valued
// config restores catalog order.
func (b *Board) SetSort(ctx context.Context, cfg model.SortConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sort = cfg
	b.rebuildLocked(ctx)
}

// SetSearch records the free-text search term and applies it after the
// debounce delay. Rapid successive calls reset the timer so only the
// last term triggers a rebuild.
func (b *Board) SetSearch(ctx context.Context, term string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pendingSearch = term

	if b.debounce <= 0 {
		b.applySearchLocked(ctx, term)
		return
	}

	if b.searchTimer != nil {
		b.searchTimer.Stop()
	}
	b.searchTimer = time.AfterFunc(b.debounce, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.applySearchLocked(ctx, term)
	})
}

// FlushSearch applies the pending search term immediately, cancelling
// any running debounce timer.
func (b *Board) FlushSearch(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.searchTimer != nil {
		b.searchTimer.Stop()
		b.searchTimer = nil
	}
	b.applySearchLocked(ctx, b.pendingSearch)
}

func (b *Board) applySearchLocked(ctx context.Context, term string) {
	if term != b.pendingSearch {
		// a newer term is already pending; let its timer win
		return
	}
	if term == b.search {
		return
	}
	b.search = term
	b.rebuildLocked(ctx)
}
