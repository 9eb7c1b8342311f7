package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/lane-lab/kanvas/pkg/cli/config"
)

func cmdValidate() *cli.Command {
	var boardCfg config.Board

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the board definition file",
		Flags:   boardCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if boardCfg.Path() == "" {
				return goerr.New("board-config is required for validation")
			}

			boardFile, err := boardCfg.Load()
			if err != nil {
				color.Red("✗ %s", err.Error())
				return goerr.Wrap(err, "board configuration is invalid")
			}

			cfg := boardFile.BoardConfig()

			color.Green("✓ Board definition loaded: %s", boardCfg.Path())
			fmt.Printf("  default view:  %s\n", orNone(cfg.DefaultView))
			fmt.Printf("  quick filters: %d\n", len(cfg.QuickFilters))
			fmt.Printf("  presets:       %d\n", len(cfg.Presets))
			fmt.Printf("  field rules:   %d\n", len(cfg.FieldRules))
			fmt.Printf("  stage orders:  %d\n", len(cfg.StageOrder))
			if boardFile.Seed != nil {
				fmt.Printf("  seed records:  %d\n", len(boardFile.Seed.Records))
			}

			if len(cfg.Errors) == 0 {
				color.Green("✓ All option values are well-formed")
				return nil
			}

			for _, cfgErr := range cfg.Errors {
				color.Yellow("! option %q: %s", cfgErr.Key, cfgErr.Err.Error())
			}
			return fmt.Errorf("board definition has %d malformed option value(s)", len(cfg.Errors))
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
