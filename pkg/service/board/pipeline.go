package board

import (
	"sort"
	"strings"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/model/config"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
)

// Pipeline narrows and reorders the full-fidelity card list before
// column bucketing. All predicates are pure functions of a card and the
// current filter state; active filters combine with logical AND.
type Pipeline struct {
	cfg *config.BoardConfig
	now func() time.Time
}

// NewPipeline creates a Pipeline. now is injectable for deterministic
// relative date-range tests; nil defaults to time.Now.
func NewPipeline(cfg *config.BoardConfig, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{cfg: cfg, now: now}
}

// Apply filters by quick-filter state and search term, then sorts.
// The input slice is never mutated.
func (p *Pipeline) Apply(cards []model.CardItem, state model.FilterState, search string, sortCfg model.SortConfig) []model.CardItem {
	out := make([]model.CardItem, 0, len(cards))
	for _, card := range cards {
		if !p.matchFilters(card, state) {
			continue
		}
		if !card.Matches(search) {
			continue
		}
		out = append(out, card)
	}

	return SortCards(out, sortCfg)
}

func (p *Pipeline) matchFilters(card model.CardItem, state model.FilterState) bool {
	for field, value := range state {
		if value == "" {
			continue
		}

		kind := model.FilterKindCategorical
		if qf, ok := p.cfg.QuickFilterByKey(field); ok {
			kind = qf.Kind
		}

		if !p.matchOne(card, field, value, kind) {
			return false
		}
	}
	return true
}

func (p *Pipeline) matchOne(card model.CardItem, field types.FieldName, value string, kind model.FilterKind) bool {
	switch kind {
	case model.FilterKindNumeric:
		r, err := model.ParseNumericFilter(value)
		if err != nil {
			logging.Default().Warn("ignoring malformed numeric filter",
				"field", field, "value", value, "error", err.Error())
			return true
		}
		text, ok := card.FieldText(field)
		if !ok {
			return false
		}
		n, _, parsed := ParseAmount(text)
		return parsed && r.Contains(n)

	case model.FilterKindDate:
		r, err := model.ParseDateFilter(value, p.now())
		if err != nil {
			logging.Default().Warn("ignoring malformed date filter",
				"field", field, "value", value, "error", err.Error())
			return true
		}
		fv, exists := card.Fields[field]
		return exists && fv.Kind == types.ValueKindDate && r.Contains(fv.Date)

	default:
		// categorical filters match the stored option key, not the label
		key, ok := card.FieldKey(field)
		if !ok {
			return false
		}
		for _, want := range model.SplitCategorical(value) {
			if key == want {
				return true
			}
		}
		return false
	}
}

// SortCards returns a stably sorted copy of cards. Numeric fields
// compare numerically when both values parse; strings compare
// case-insensitively; absent or type-mismatched values compare equal.
func SortCards(cards []model.CardItem, cfg model.SortConfig) []model.CardItem {
	out := make([]model.CardItem, len(cards))
	copy(out, cards)

	if !cfg.IsActive() {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		less := compareCards(out[i], out[j], cfg.Field)
		if cfg.Direction == types.SortDesc {
			return less > 0
		}
		return less < 0
	})
	return out
}

func compareCards(a, b model.CardItem, field types.FieldName) int {
	at, aok := a.FieldText(field)
	bt, bok := b.FieldText(field)
	if !aok || !bok {
		return 0
	}

	an, _, aNum := ParseAmount(at)
	bn, _, bNum := ParseAmount(bt)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	if aNum != bNum {
		return 0
	}

	return strings.Compare(strings.ToLower(at), strings.ToLower(bt))
}
