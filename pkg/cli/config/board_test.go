package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lane-lab/kanvas/pkg/cli/config"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

const boardTOML = `
default-view = "status"
sum-field = "amount"

[[quick-filter]]
key = "status"
text = "Status"
kind = "categorical"
multiselect = true

[[quick-filter]]
key = "amount"
text = "Amount"
kind = "numeric"

[[preset]]
id = "high"
label = "High value"
[preset.values]
amount = "gt:100"

[options]
hidden = "internal_notes,audit_trail"
display-names = '[{"field": "amount", "value": "Deal Size"}]'
widths = "amount:20"
stage-order = '[{"id": "stage-1", "order": 10}]'

[seed]
entity = "opportunity"

[[seed.column]]
name = "name"
display-name = "Name"
data-type = "text"

[[seed.column]]
name = "status"
display-name = "Status"
data-type = "optionset"

[[seed.record]]
id = "r1"
[seed.record.fields]
name = "Acme renewal"
status = "Todo"

[[seed.option]]
field = "status"
key = "todo"
label = "Todo"
order = 1
`

func writeBoardFile(t *testing.T, content string) *config.Board {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var b config.Board
	config.SetBoardPath(&b, path)
	return &b
}

func TestBoard_Load(t *testing.T) {
	b := writeBoardFile(t, boardTOML)

	file := gt.R1(b.Load()).NoError(t)
	gt.V(t, file.DefaultView).Equal("status")
	gt.A(t, file.QuickFilters).Length(2)
	gt.A(t, file.Presets).Length(1)
	gt.V(t, file.Seed.Entity).Equal("opportunity")
	gt.A(t, file.Seed.Records).Length(1)

	cfg := file.BoardConfig()
	gt.V(t, cfg.SumField).Equal(types.FieldName("amount"))
	gt.A(t, cfg.Errors).Length(0)

	gt.B(t, cfg.Rule("internal_notes").Hidden).True()
	gt.V(t, cfg.Rule("amount").DisplayName).Equal("Deal Size")
	gt.V(t, cfg.Rule("amount").WidthPct).Equal(20)
	gt.V(t, cfg.StageOrder["stage-1"]).Equal(10)

	qf, ok := cfg.QuickFilterByKey("amount")
	gt.B(t, ok).True()
	gt.V(t, qf.Kind).Equal(model.FilterKindNumeric)
}

func TestBoard_Load_Empty(t *testing.T) {
	var b config.Board
	file := gt.R1(b.Load()).NoError(t)
	cfg := file.BoardConfig()
	gt.A(t, cfg.QuickFilters).Length(0)
}

func TestBoard_Load_InvalidKind(t *testing.T) {
	b := writeBoardFile(t, `
[[quick-filter]]
key = "status"
kind = "fuzzy"
`)
	_, err := b.Load()
	gt.Error(t, err)
}

func TestBoard_MalformedOptionCollected(t *testing.T) {
	b := writeBoardFile(t, `
[options]
hidden = '["unclosed'
widths = "amount:20"
`)
	file := gt.R1(b.Load()).NoError(t)
	cfg := file.BoardConfig()

	// the malformed key is reported, the well-formed one still applies
	gt.A(t, cfg.Errors).Length(1)
	gt.V(t, cfg.Errors[0].Key).Equal("hiddenFields")
	gt.V(t, cfg.Rule("amount").WidthPct).Equal(20)
}

func TestRepository_MemorySeed(t *testing.T) {
	b := writeBoardFile(t, boardTOML)
	file := gt.R1(b.Load()).NoError(t)

	store, closer, err := config.NewMemoryRepository().Configure(context.Background(), file.Seed)
	gt.NoError(t, err)
	defer closer()

	ds := gt.R1(store.Snapshot(context.Background())).NoError(t)
	gt.V(t, ds.Entity).Equal(types.EntityType("opportunity"))
	gt.A(t, ds.Columns).Length(2)
	gt.A(t, ds.Records).Length(1)
	gt.V(t, ds.Records[0].Formatted("status")).Equal("Todo")

	options := gt.R1(store.FetchOptions(context.Background(), ds.Entity, []types.FieldName{"status"})).NoError(t)
	gt.A(t, options).Length(1)
}
