package usecase

import "errors"

// Sentinel errors for the board session
var (
	ErrNoActiveView   = errors.New("no active view")
	ErrViewNotFound   = errors.New("view not found")
	ErrPresetNotFound = errors.New("filter preset not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrDragState      = errors.New("invalid drag state transition")
)

// Context keys for error values
const (
	RecordIDKey = "record_id"
	ViewKeyKey  = "view_key"
	ColumnIDKey = "column_id"
)
