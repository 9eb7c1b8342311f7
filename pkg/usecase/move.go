package usecase

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/service/board"
	"github.com/lane-lab/kanvas/pkg/utils/async"
	"github.com/lane-lab/kanvas/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// MoveRequest describes one completed drag gesture
type MoveRequest struct {
	CardID            types.RecordID
	SourceColumn      types.ColumnID
	SourceIndex       int
	DestinationColumn types.ColumnID
	DestinationIndex  int
}

// DropResult reports the outcome of a drop. Committed means the card
// was spliced into its destination column; Persisted means the backing
// store accepted the update. A committed but unpersisted drop keeps the
// optimistic position until the forced refresh settles it.
type DropResult struct {
	Committed bool
	Persisted bool
	Message   string
}

// BeginDrag starts a drag gesture on the given card
func (b *Board) BeginDrag(cardID types.RecordID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.drag.CanTransition(types.DragDragging) {
		return goerr.Wrap(ErrDragState, "cannot begin drag",
			goerr.V("phase", b.drag), goerr.V(RecordIDKey, cardID))
	}
	if _, _, ok := b.findCardLocked(cardID); !ok {
		return goerr.Wrap(ErrCardNotFound, "cannot drag unknown card", goerr.V(RecordIDKey, cardID))
	}

	b.drag = types.DragDragging
	return nil
}

// CancelDrag abandons the gesture without touching the board
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag == types.DragDragging {
		b.drag = types.DragCancelled
	}
	b.drag = types.DragIdle
}

// Drop finishes the gesture: the external validation hook runs first,
// then the card is spliced into its destination optimistically and a
// single-field update is written. A background refresh follows whether
// or not persistence succeeded.
func (b *Board) Drop(ctx context.Context, req MoveRequest) (DropResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasActive {
		return DropResult{}, goerr.Wrap(ErrNoActiveView, "cannot drop without a view")
	}
	if b.drag != types.DragDragging {
		return DropResult{}, goerr.Wrap(ErrDragState, "drop outside a drag gesture",
			goerr.V("phase", b.drag))
	}

	card, srcIdx, ok := b.findCardLocked(req.CardID)
	if !ok {
		b.settleDragLocked(types.DragCancelled)
		return DropResult{}, goerr.Wrap(ErrCardNotFound, "dropped card no longer on board",
			goerr.V(RecordIDKey, req.CardID))
	}

	destCol, ok := b.destinationLocked(req.DestinationColumn)
	if !ok {
		b.settleDragLocked(types.DragCancelled)
		return DropResult{}, goerr.Wrap(ErrColumnNotFound, "unknown destination column",
			goerr.V(ColumnIDKey, req.DestinationColumn))
	}

	if req.DestinationColumn == card.Column && req.DestinationIndex == srcIdx {
		// dropping a card back on its own slot is a no-op, not a mutation;
		// a reorder within the column still commits
		b.settleDragLocked(types.DragCancelled)
		return DropResult{}, nil
	}

	if decision, vetoed := b.validateMoveLocked(ctx, card, destCol); vetoed {
		b.settleDragLocked(types.DragCancelled)
		if decision.Message != "" {
			b.notifyLocked(decision.Message)
		}
		return DropResult{Message: decision.Message}, nil
	}

	b.drag = types.DragCommitting
	b.spliceLocked(req.CardID, srcIdx, req.DestinationColumn, req.DestinationIndex)

	result := DropResult{Committed: true, Persisted: true}

	update := model.RecordUpdate{
		EntitySet: b.dataset.Entity.Pluralize(),
		RecordID:  req.CardID,
		Field:     b.active.UniqueName,
		Value:     persistedValue(req.DestinationColumn),
	}
	if err := b.store.UpdateRecord(ctx, update); err != nil {
		_ = errutil.Handle(ctx, err, "failed to persist card move")
		sentry.CaptureException(err)
		result.Persisted = false
		result.Message = "the move could not be saved; the board will reload"
		b.notifyLocked(result.Message)
	}

	// the store is the source of truth either way
	async.Dispatch(ctx, b.Refresh)

	b.settleDragLocked(types.DragCommitting)
	return result, nil
}

// ClickAllowed reports whether a pointer-up gesture counts as a card
// click rather than the tail of a drag. travelPx is the total pointer
// travel since pointer-down.
func (b *Board) ClickAllowed(travelPx float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if travelPx >= clickThresholdPx {
		return false
	}
	if b.drag != types.DragIdle {
		return false
	}
	return b.clock().Sub(b.lastDrop) >= dropGraceWindow
}

// DragPhase returns the current gesture phase
func (b *Board) DragPhase() types.DragPhase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag
}

func (b *Board) settleDragLocked(via types.DragPhase) {
	b.drag = via
	b.drag = types.DragIdle
	b.lastDrop = b.clock()
}

func (b *Board) validateMoveLocked(ctx context.Context, card model.CardItem, dest model.ColumnDefinition) (interfaces.MoveDecision, bool) {
	if b.validator == nil {
		return interfaces.MoveDecision{Allow: true}, false
	}

	src := board.UnallocatedColumnTitle
	if col, ok := b.active.ColumnByID(card.Column); ok {
		src = col.Title
	}

	decision, err := b.validator.OnBeforeMove(ctx, interfaces.MoveInput{
		RecordID:               card.ID,
		EntityName:             b.dataset.Entity,
		SourceColumnTitle:      src,
		DestinationColumnTitle: dest.Title,
		Card:                   card,
	})
	if err != nil {
		// an unreachable hook blocks the move rather than bypassing it
		_ = errutil.Handle(ctx, err, "move validation hook failed")
		return interfaces.MoveDecision{Message: "move validation is unavailable"}, true
	}
	if !decision.Allow {
		return decision, true
	}
	return decision, false
}

// findCardLocked locates a card on the rendered board, returning its
// index within its column.
func (b *Board) findCardLocked(id types.RecordID) (model.CardItem, int, bool) {
	for _, col := range b.built.Columns {
		for i, card := range col.Cards {
			if card.ID == id {
				return card, i, true
			}
		}
	}
	return model.CardItem{}, 0, false
}

func (b *Board) destinationLocked(id types.ColumnID) (model.ColumnDefinition, bool) {
	if id == types.UnallocatedColumnID && b.active.Type != types.ViewTypeBPF {
		return model.ColumnDefinition{
			ID:    types.UnallocatedColumnID,
			Title: board.UnallocatedColumnTitle,
		}, true
	}
	return b.active.ColumnByID(id)
}

// spliceLocked reassigns the card between rendered columns in place.
// The destination index is clamped to the column's card count.
func (b *Board) spliceLocked(id types.RecordID, srcIdx int, destID types.ColumnID, destIdx int) {
	var moved model.CardItem

	for ci := range b.built.Columns {
		col := &b.built.Columns[ci]
		if srcIdx < len(col.Cards) && col.Cards[srcIdx].ID == id {
			moved = col.Cards[srcIdx]
			col.Cards = append(col.Cards[:srcIdx], col.Cards[srcIdx+1:]...)
			break
		}
		// index hint missed; fall back to a scan
		for i, card := range col.Cards {
			if card.ID == id {
				moved = card
				col.Cards = append(col.Cards[:i], col.Cards[i+1:]...)
				break
			}
		}
		if moved.ID == id {
			break
		}
	}
	if moved.ID != id {
		return
	}

	moved.Column = destID
	for ci := range b.built.Columns {
		col := &b.built.Columns[ci]
		if col.Definition.ID != destID {
			continue
		}
		if destIdx < 0 || destIdx > len(col.Cards) {
			destIdx = len(col.Cards)
		}
		col.Cards = append(col.Cards[:destIdx], append([]model.CardItem{moved}, col.Cards[destIdx:]...)...)
		return
	}

	// destination column not rendered yet (empty unallocated bucket)
	b.built.Columns = append([]board.ColumnItem{{
		Definition: model.ColumnDefinition{ID: destID, Title: board.UnallocatedColumnTitle},
		Cards:      []model.CardItem{moved},
	}}, b.built.Columns...)
}

// persistedValue maps a destination column to the stored field value.
// The unallocated bucket clears the field.
func persistedValue(dest types.ColumnID) string {
	if dest == types.UnallocatedColumnID {
		return ""
	}
	return string(dest)
}
