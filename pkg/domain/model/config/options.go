package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Option keys recognized by the board. Each value is accepted either as a
// JSON array (of field names, or of {field, value} objects where noted) or
// as a comma-separated list.
const (
	KeyDisplayNames = "displayNames" // field→value objects
	KeyHidden       = "hiddenFields"
	KeyHTML         = "htmlFields"
	KeyWidths       = "columnWidths" // field→value objects, value 1..100
	KeyPersona      = "personaFields"
	KeyEmailLink    = "emailLinkFields"
	KeyPhoneLink    = "phoneLinkFields"
	KeyEllipsis     = "ellipsisFields"
	KeyStageOrder   = "stageOrder" // JSON array of {id, order}
)

// RawOptions holds the loosely-typed recognized options as handed over by
// the embedding host. BuildRules parses them once into typed rules.
type RawOptions struct {
	DisplayNames string
	Hidden       string
	HTML         string
	Widths       string
	Persona      string
	EmailLink    string
	PhoneLink    string
	Ellipsis     string
	StageOrder   string
}

// BuildRules parses every option value, collecting one ConfigError per
// malformed key while still applying all well-formed keys.
func (o RawOptions) BuildRules() (map[types.FieldName]FieldRule, map[string]int, []ConfigError) {
	rules := make(map[types.FieldName]FieldRule)
	var errs []ConfigError

	apply := func(key, raw string, set func(rule *FieldRule)) {
		fields, cfgErr := ParseFieldList(key, raw)
		if cfgErr != nil {
			errs = append(errs, *cfgErr)
			return
		}
		for _, f := range fields {
			rule := rules[f]
			set(&rule)
			rules[f] = rule
		}
	}

	apply(KeyHidden, o.Hidden, func(r *FieldRule) { r.Hidden = true })
	apply(KeyHTML, o.HTML, func(r *FieldRule) { r.RenderHTML = true })
	apply(KeyPersona, o.Persona, func(r *FieldRule) { r.Persona = true })
	apply(KeyEmailLink, o.EmailLink, func(r *FieldRule) { r.EmailLink = true })
	apply(KeyPhoneLink, o.PhoneLink, func(r *FieldRule) { r.PhoneLink = true })
	apply(KeyEllipsis, o.Ellipsis, func(r *FieldRule) { r.Ellipsis = true })

	if names, cfgErr := ParseFieldValues(KeyDisplayNames, o.DisplayNames); cfgErr != nil {
		errs = append(errs, *cfgErr)
	} else {
		for f, v := range names {
			rule := rules[f]
			rule.DisplayName = v
			rules[f] = rule
		}
	}

	if widths, cfgErr := ParseFieldValues(KeyWidths, o.Widths); cfgErr != nil {
		errs = append(errs, *cfgErr)
	} else {
		for f, v := range widths {
			pct, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || pct < 1 || pct > 100 {
				errs = append(errs, ConfigError{
					Key: KeyWidths,
					Err: goerr.New("width must be an integer between 1 and 100",
						goerr.V("field", f), goerr.V("value", v)),
				})
				continue
			}
			rule := rules[f]
			rule.WidthPct = pct
			rules[f] = rule
		}
	}

	stageOrder, cfgErr := ParseStageOrder(o.StageOrder)
	if cfgErr != nil {
		errs = append(errs, *cfgErr)
	}

	return rules, stageOrder, errs
}

// ParseFieldList parses one option value into field names. A value
// starting with '[' must be a JSON array of strings; anything else is
// treated as a comma-separated list. Malformed JSON yields a ConfigError
// for the key and an empty list.
func ParseFieldList(key, raw string) ([]types.FieldName, *ConfigError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, &ConfigError{Key: key, Err: goerr.Wrap(err, "malformed JSON field list")}
		}
		return toFieldNames(names), nil
	}

	return toFieldNames(strings.Split(raw, ",")), nil
}

// ParseFieldValues parses one option value into a field→value map. A JSON
// value must be an array of {field, value} objects; the comma-list form
// uses field:value pairs.
func ParseFieldValues(key, raw string) (map[types.FieldName]string, *ConfigError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	out := make(map[types.FieldName]string)

	if strings.HasPrefix(raw, "[") {
		var entries []struct {
			Field string `json:"field"`
			Value any    `json:"value"`
		}
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return nil, &ConfigError{Key: key, Err: goerr.Wrap(err, "malformed JSON field map")}
		}
		for _, e := range entries {
			if e.Field == "" {
				continue
			}
			out[types.FieldName(e.Field)] = stringify(e.Value)
		}
		return out, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		field, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, &ConfigError{
				Key: key,
				Err: goerr.New("field map entries need field:value", goerr.V("entry", pair)),
			}
		}
		out[types.FieldName(strings.TrimSpace(field))] = strings.TrimSpace(value)
	}
	return out, nil
}

// ParseStageOrder parses the stage-order table, a JSON array of
// {id, order} objects.
func ParseStageOrder(raw string) (map[string]int, *ConfigError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, &ConfigError{Key: KeyStageOrder, Err: goerr.Wrap(err, "malformed stage-order table")}
	}

	out := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		out[e.ID] = e.Order
	}
	return out, nil
}

func toFieldNames(parts []string) []types.FieldName {
	names := make([]types.FieldName, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, types.FieldName(trimmed))
		}
	}
	return names
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
