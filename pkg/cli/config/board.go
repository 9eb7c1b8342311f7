package config

import (
	"os"

	"github.com/lane-lab/kanvas/pkg/domain/model"
	domainConfig "github.com/lane-lab/kanvas/pkg/domain/model/config"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Board holds CLI flags for the board definition file
type Board struct {
	path string
}

// Flags returns CLI flags for board configuration
func (b *Board) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "board-config",
			Usage:       "Path to the board definition TOML file",
			Category:    "Board",
			Sources:     cli.EnvVars("KANVAS_BOARD_CONFIG"),
			Destination: &b.path,
		},
	}
}

// Path returns the configured file path
func (b *Board) Path() string {
	return b.path
}

// BoardFile is the TOML shape of the board definition
type BoardFile struct {
	DefaultView  string        `toml:"default-view"`
	SumField     string        `toml:"sum-field"`
	QuickFilters []QuickFilter `toml:"quick-filter"`
	Presets      []Preset      `toml:"preset"`
	Options      Options       `toml:"options"`
	Seed         *Seed         `toml:"seed"`
}

// QuickFilter is one quick-filter control definition
type QuickFilter struct {
	Key         string `toml:"key"`
	Text        string `toml:"text"`
	Kind        string `toml:"kind"`
	Multiselect bool   `toml:"multiselect"`
	Popup       bool   `toml:"popup"`
}

// Validate checks if the QuickFilter is valid
func (f *QuickFilter) Validate() error {
	if f.Key == "" {
		return goerr.New("quick-filter key is required")
	}
	if f.Kind != "" && !model.FilterKind(f.Kind).IsValid() {
		return goerr.New("invalid quick-filter kind, must be categorical, numeric or date",
			goerr.V("key", f.Key), goerr.V("kind", f.Kind))
	}
	return nil
}

// Preset is one named filter snapshot
type Preset struct {
	ID     string            `toml:"id"`
	Label  string            `toml:"label"`
	Values map[string]string `toml:"values"`
}

// Validate checks if the Preset is valid
func (p *Preset) Validate() error {
	if p.ID == "" {
		return goerr.New("preset id is required")
	}
	if len(p.Values) == 0 {
		return goerr.New("preset needs at least one filter value", goerr.V("id", p.ID))
	}
	return nil
}

// Options carries the loosely-typed per-field option strings. Each value
// is either a JSON array or a comma-separated list; parse failures are
// collected per key instead of failing the load.
type Options struct {
	DisplayNames string `toml:"display-names"`
	Hidden       string `toml:"hidden"`
	HTML         string `toml:"html"`
	Widths       string `toml:"widths"`
	Persona      string `toml:"persona"`
	EmailLink    string `toml:"email-link"`
	PhoneLink    string `toml:"phone-link"`
	Ellipsis     string `toml:"ellipsis"`
	StageOrder   string `toml:"stage-order"`
}

// Seed describes sample data served by the memory backend
type Seed struct {
	Entity  string            `toml:"entity"`
	Columns []SeedColumn      `toml:"column"`
	Records []SeedRecord      `toml:"record"`
	Options []SeedOption      `toml:"option"`
	Stages  []SeedStage       `toml:"stage"`
	Current map[string]string `toml:"current-stage"` // record id → stage name
}

// SeedColumn is one displayed column of the seeded record query
type SeedColumn struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display-name"`
	DataType    string `toml:"data-type"`
}

// Validate checks if the SeedColumn is valid
func (c *SeedColumn) Validate() error {
	if c.Name == "" {
		return goerr.New("seed column name is required")
	}
	if !types.FieldDataType(c.DataType).IsValid() {
		return goerr.New("invalid seed column data type",
			goerr.V("name", c.Name), goerr.V("data_type", c.DataType))
	}
	return nil
}

// SeedRecord is one seeded record with formatted field values
type SeedRecord struct {
	ID     string            `toml:"id"`
	Fields map[string]string `toml:"fields"`
}

// SeedOption is one option value of a categorical field
type SeedOption struct {
	Field string `toml:"field"`
	Key   string `toml:"key"`
	Label string `toml:"label"`
	Order int    `toml:"order"`
}

// SeedStage is one stage of a seeded business process flow
type SeedStage struct {
	ProcessID         string `toml:"process-id"`
	ProcessName       string `toml:"process-name"`
	ProcessUniqueName string `toml:"process-unique-name"`
	StageID           string `toml:"stage-id"`
	StageName         string `toml:"stage-name"`
}

// Load reads and validates the board definition file. An empty path
// yields an empty definition, which is a valid board.
func (b *Board) Load() (*BoardFile, error) {
	if b.path == "" {
		return &BoardFile{}, nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read board config", goerr.V("path", b.path))
	}

	var file BoardFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse board config", goerr.V("path", b.path))
	}

	for i := range file.QuickFilters {
		if err := file.QuickFilters[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid quick-filter", goerr.V("path", b.path))
		}
	}
	for i := range file.Presets {
		if err := file.Presets[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid preset", goerr.V("path", b.path))
		}
	}
	if file.Seed != nil {
		for i := range file.Seed.Columns {
			if err := file.Seed.Columns[i].Validate(); err != nil {
				return nil, goerr.Wrap(err, "invalid seed column", goerr.V("path", b.path))
			}
		}
	}

	return &file, nil
}

// BoardConfig converts the file into the typed board configuration.
// Malformed option values land in BoardConfig.Errors; the board still
// renders with the well-formed remainder.
func (f *BoardFile) BoardConfig() *domainConfig.BoardConfig {
	raw := domainConfig.RawOptions{
		DisplayNames: f.Options.DisplayNames,
		Hidden:       f.Options.Hidden,
		HTML:         f.Options.HTML,
		Widths:       f.Options.Widths,
		Persona:      f.Options.Persona,
		EmailLink:    f.Options.EmailLink,
		PhoneLink:    f.Options.PhoneLink,
		Ellipsis:     f.Options.Ellipsis,
		StageOrder:   f.Options.StageOrder,
	}
	rules, stageOrder, errs := raw.BuildRules()

	cfg := &domainConfig.BoardConfig{
		DefaultView: f.DefaultView,
		SumField:    types.FieldName(f.SumField),
		StageOrder:  stageOrder,
		FieldRules:  rules,
		Errors:      errs,
	}

	for _, qf := range f.QuickFilters {
		kind := model.FilterKind(qf.Kind)
		if qf.Kind == "" {
			kind = model.FilterKindCategorical
		}
		cfg.QuickFilters = append(cfg.QuickFilters, model.QuickFilterField{
			Key:         types.FieldName(qf.Key),
			Text:        qf.Text,
			Kind:        kind,
			Multiselect: qf.Multiselect,
			InPopup:     qf.Popup,
		})
	}

	for _, p := range f.Presets {
		values := make(model.FilterState, len(p.Values))
		for field, value := range p.Values {
			values[types.FieldName(field)] = value
		}
		cfg.Presets = append(cfg.Presets, model.FilterPreset{
			ID:     p.ID,
			Label:  p.Label,
			Values: values,
		})
	}

	return cfg
}
