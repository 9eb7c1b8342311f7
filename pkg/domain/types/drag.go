package types

// DragPhase represents the state of a drag gesture
type DragPhase string

const (
	DragIdle       DragPhase = "idle"
	DragDragging   DragPhase = "dragging"
	DragCommitting DragPhase = "committing"
	DragCancelled  DragPhase = "cancelled"
)

// AllDragPhases returns all valid drag phases
func AllDragPhases() []DragPhase {
	return []DragPhase{
		DragIdle,
		DragDragging,
		DragCommitting,
		DragCancelled,
	}
}

// IsValid checks if the drag phase is valid
func (p DragPhase) IsValid() bool {
	switch p {
	case DragIdle, DragDragging, DragCommitting, DragCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the drag phase
func (p DragPhase) String() string {
	return string(p)
}

// CanTransition reports whether the gesture state machine allows moving
// from p to next. Committing and Cancelled both settle back to Idle.
func (p DragPhase) CanTransition(next DragPhase) bool {
	switch p {
	case DragIdle:
		return next == DragDragging
	case DragDragging:
		return next == DragCommitting || next == DragCancelled
	case DragCommitting, DragCancelled:
		return next == DragIdle
	default:
		return false
	}
}
