package config

import (
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// FieldRule is the per-field presentation rule resolved from the
// dynamic configuration options. Parsed once at board initialization.
type FieldRule struct {
	DisplayName string
	Hidden      bool
	RenderHTML  bool
	WidthPct    int // 0 means unset; valid range is 1..100
	Persona     bool
	EmailLink   bool
	PhoneLink   bool
	Ellipsis    bool
}

// BoardConfig is the complete typed configuration of one board session
type BoardConfig struct {
	DefaultView  string
	QuickFilters []model.QuickFilterField
	Presets      []model.FilterPreset
	StageOrder   map[string]int
	FieldRules   map[types.FieldName]FieldRule

	// SumField, when set, is the numeric field summed per column
	SumField types.FieldName

	// Errors collects the non-fatal per-key parse failures found while
	// building FieldRules and StageOrder. The board still renders.
	Errors []ConfigError
}

// Rule returns the presentation rule for a field, zero-valued when none
// is configured.
func (c *BoardConfig) Rule(field types.FieldName) FieldRule {
	if c == nil || c.FieldRules == nil {
		return FieldRule{}
	}
	return c.FieldRules[field]
}

// PresetByID looks up a filter preset
func (c *BoardConfig) PresetByID(id string) (model.FilterPreset, bool) {
	if c == nil {
		return model.FilterPreset{}, false
	}
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return model.FilterPreset{}, false
}

// QuickFilterByKey looks up a quick-filter field configuration
func (c *BoardConfig) QuickFilterByKey(key types.FieldName) (model.QuickFilterField, bool) {
	if c == nil {
		return model.QuickFilterField{}, false
	}
	for _, f := range c.QuickFilters {
		if f.Key == key {
			return f, true
		}
	}
	return model.QuickFilterField{}, false
}
