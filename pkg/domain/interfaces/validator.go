package interfaces

import (
	"context"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// MoveInput describes a pending card move offered to the validation hook
type MoveInput struct {
	RecordID               types.RecordID
	EntityName             types.EntityType
	SourceColumnTitle      string
	DestinationColumnTitle string
	Card                   model.CardItem
}

// MoveDecision is the hook's verdict. A denied move carries a
// user-facing message.
type MoveDecision struct {
	Allow   bool
	Message string
}

// MoveValidator is the optional external hook consulted before a card
// move is committed. The engine blocks the commit pending its result.
type MoveValidator interface {
	OnBeforeMove(ctx context.Context, input MoveInput) (MoveDecision, error)
}

// MoveValidatorFunc adapts a function to the MoveValidator interface
type MoveValidatorFunc func(ctx context.Context, input MoveInput) (MoveDecision, error)

// OnBeforeMove implements MoveValidator
func (f MoveValidatorFunc) OnBeforeMove(ctx context.Context, input MoveInput) (MoveDecision, error) {
	return f(ctx, input)
}
