package board

import (
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/model/config"
	"github.com/lane-lab/kanvas/pkg/domain/types"
)

// Projection is the full-fidelity card list derived from one dataset
// under one active view. BlankGroup records which cards lacked the
// grouping field or had an empty formatted value for it; the column
// builder uses it to decide unallocated-column injection.
type Projection struct {
	Cards      []model.CardItem
	BlankGroup map[types.RecordID]bool
}

// Projector maps raw records into display-ready cards
type Projector struct {
	cfg *config.BoardConfig
}

// NewProjector creates a Projector. cfg may be nil, in which case no
// per-field presentation rules apply.
func NewProjector(cfg *config.BoardConfig) *Projector {
	return &Projector{cfg: cfg}
}

// Project derives one card per record. Cards are rebuilt in full on
// every call and never alias the input records. For BPF views the column
// key comes from the per-record current-stage map; for option-set views
// it is resolved by matching the grouping field's formatted value
// against the view's column titles.
func (p *Projector) Project(ds *model.Dataset, view model.ViewDefinition, stageByRecord map[types.RecordID]string) Projection {
	proj := Projection{
		Cards:      make([]model.CardItem, 0, len(ds.Records)),
		BlankGroup: make(map[types.RecordID]bool),
	}

	for _, rec := range ds.Records {
		card := model.CardItem{
			ID:     rec.ID,
			Fields: make(map[types.FieldName]model.FieldValue),
		}

		for i, col := range ds.Columns {
			if i == 0 {
				// first dataset column always maps to the title
				card.Title = rec.Formatted(col.Name)
				continue
			}
			if p.rule(col.Name).Hidden {
				continue
			}
			card.Fields[col.Name] = p.fieldValue(rec, col)
		}

		switch view.Type {
		case types.ViewTypeBPF:
			card.Column = types.ColumnID(stageByRecord[rec.ID])
		default:
			formatted := rec.Formatted(view.Key)
			if !rec.Has(view.Key) || formatted == "" {
				proj.BlankGroup[rec.ID] = true
				card.Column = types.UnallocatedColumnID
			} else {
				card.Column = view.ColumnIDByTitle(formatted)
			}
		}

		proj.Cards = append(proj.Cards, card)
	}

	return proj
}

func (p *Projector) rule(field types.FieldName) config.FieldRule {
	return p.cfg.Rule(field)
}

func (p *Projector) fieldValue(rec *model.Record, col model.DatasetColumn) model.FieldValue {
	label := col.DisplayName
	if name := p.rule(col.Name).DisplayName; name != "" {
		label = name
	}

	switch raw := rec.Raw(col.Name).(type) {
	case model.ReferenceValue:
		return model.ReferenceFieldValue(label, raw)
	case *model.ReferenceValue:
		if raw == nil {
			return model.ScalarValue(label, rec.Formatted(col.Name))
		}
		return model.ReferenceFieldValue(label, *raw)
	case []model.ReferenceValue:
		return model.ReferenceListValue(label, raw)
	case time.Time:
		return model.DateValue(label, rec.Formatted(col.Name), raw)
	default:
		value := model.ScalarValue(label, rec.Formatted(col.Name))
		if key, ok := raw.(string); ok {
			value.Key = key
		}
		return value
	}
}
