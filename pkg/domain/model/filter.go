package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FilterKind selects the predicate shape of a quick-filter field
type FilterKind string

const (
	FilterKindCategorical FilterKind = "categorical"
	FilterKindNumeric     FilterKind = "numeric"
	FilterKindDate        FilterKind = "date"
)

// IsValid checks if the filter kind is valid
func (k FilterKind) IsValid() bool {
	switch k {
	case FilterKindCategorical, FilterKindNumeric, FilterKindDate:
		return true
	default:
		return false
	}
}

// QuickFilterField is the configuration of one quick-filter control
type QuickFilterField struct {
	Key         types.FieldName
	Text        string
	Kind        FilterKind
	Multiselect bool
	InPopup     bool
}

// FilterState maps field names to their encoded predicate value.
// A missing entry means no filter for that field.
type FilterState map[types.FieldName]string

// Clone returns a copy of the filter state
func (s FilterState) Clone() FilterState {
	out := make(FilterState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FilterPreset is a named snapshot of filter values applied atomically
type FilterPreset struct {
	ID     string
	Label  string
	Values FilterState
}

// SortConfig is the single active sort key and direction.
// An empty Field means no sort.
type SortConfig struct {
	Field     types.FieldName
	Direction types.SortDirection
}

// IsActive reports whether a sort field is set
func (s SortConfig) IsActive() bool {
	return s.Field != ""
}

// NumericRange is a parsed numeric filter predicate
type NumericRange struct {
	Low           float64
	High          float64
	HasLow        bool
	HasHigh       bool
	LowInclusive  bool
	HighInclusive bool
}

// Contains reports whether n satisfies the range
func (r NumericRange) Contains(n float64) bool {
	if r.HasLow {
		if r.LowInclusive {
			if n < r.Low {
				return false
			}
		} else if n <= r.Low {
			return false
		}
	}
	if r.HasHigh {
		if r.HighInclusive {
			if n > r.High {
				return false
			}
		} else if n >= r.High {
			return false
		}
	}
	return true
}

// ParseNumericFilter parses one of gt:N, lt:N, gte:N, lte:N,
// between:LOW|HIGH. Between bounds are normalized so low <= high
// regardless of entry order.
func ParseNumericFilter(value string) (NumericRange, error) {
	op, rest, ok := strings.Cut(value, ":")
	if !ok {
		return NumericRange{}, goerr.New("numeric filter has no operator", goerr.V("value", value))
	}

	switch op {
	case "between":
		lowStr, highStr, ok := strings.Cut(rest, "|")
		if !ok {
			return NumericRange{}, goerr.New("between filter needs LOW|HIGH", goerr.V("value", value))
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(lowStr), 64)
		if err != nil {
			return NumericRange{}, goerr.Wrap(err, "invalid between low bound", goerr.V("value", value))
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(highStr), 64)
		if err != nil {
			return NumericRange{}, goerr.Wrap(err, "invalid between high bound", goerr.V("value", value))
		}
		if low > high {
			low, high = high, low
		}
		return NumericRange{
			Low: low, High: high,
			HasLow: true, HasHigh: true,
			LowInclusive: true, HighInclusive: true,
		}, nil

	case "gt", "gte", "lt", "lte":
		n, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return NumericRange{}, goerr.Wrap(err, "invalid numeric filter bound", goerr.V("value", value))
		}
		switch op {
		case "gt":
			return NumericRange{Low: n, HasLow: true}, nil
		case "gte":
			return NumericRange{Low: n, HasLow: true, LowInclusive: true}, nil
		case "lt":
			return NumericRange{High: n, HasHigh: true}, nil
		default:
			return NumericRange{High: n, HasHigh: true, HighInclusive: true}, nil
		}

	default:
		return NumericRange{}, goerr.New("unknown numeric filter operator", goerr.V("op", op))
	}
}

// DateRange is a parsed date filter predicate, half-open [From, To)
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether at falls inside the range
func (r DateRange) Contains(at time.Time) bool {
	return !at.Before(r.From) && at.Before(r.To)
}

const dateFilterLayout = "2006-01-02"

// ParseDateFilter parses one of the fixed relative-range keywords
// (today, last7, last30, currentMonth, currentYear) or
// custom:YYYY-MM-DD|YYYY-MM-DD, resolved against now.
func ParseDateFilter(value string, now time.Time) (DateRange, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch value {
	case "today":
		return DateRange{From: dayStart, To: dayStart.AddDate(0, 0, 1)}, nil
	case "last7":
		return DateRange{From: dayStart.AddDate(0, 0, -7), To: dayStart.AddDate(0, 0, 1)}, nil
	case "last30":
		return DateRange{From: dayStart.AddDate(0, 0, -30), To: dayStart.AddDate(0, 0, 1)}, nil
	case "currentMonth":
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: monthStart, To: monthStart.AddDate(0, 1, 0)}, nil
	case "currentYear":
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: yearStart, To: yearStart.AddDate(1, 0, 0)}, nil
	}

	rest, ok := strings.CutPrefix(value, "custom:")
	if !ok {
		return DateRange{}, goerr.New("unknown date filter value", goerr.V("value", value))
	}

	fromStr, toStr, ok := strings.Cut(rest, "|")
	if !ok {
		return DateRange{}, goerr.New("custom date filter needs FROM|TO", goerr.V("value", value))
	}
	from, err := time.ParseInLocation(dateFilterLayout, strings.TrimSpace(fromStr), now.Location())
	if err != nil {
		return DateRange{}, goerr.Wrap(err, "invalid custom date filter from", goerr.V("value", value))
	}
	to, err := time.ParseInLocation(dateFilterLayout, strings.TrimSpace(toStr), now.Location())
	if err != nil {
		return DateRange{}, goerr.Wrap(err, "invalid custom date filter to", goerr.V("value", value))
	}
	if from.After(to) {
		from, to = to, from
	}
	return DateRange{From: from, To: to.AddDate(0, 0, 1)}, nil
}

// SplitCategorical splits an encoded categorical filter value into its
// option keys. Multi-select values are comma-separated.
func SplitCategorical(value string) []string {
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
