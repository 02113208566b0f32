package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/world/maploader"
)

// NewCheckCmd creates the check subcommand.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configuration, maps and dialog files",
		Long: `Load the configuration and parse every map and dialog file it names
without opening a window. Tileset images are not loaded.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	maps := maploader.New(nil, cfg.Assets.Dir, logger)
	var failed int
	for _, path := range []string{cfg.Maps.Overworld, cfg.Maps.Venue} {
		if path == "" {
			continue
		}
		m, err := maps.Load(path)
		if err != nil {
			cmd.Printf("map %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("map %s: %dx%d, %d layers, %d spawns\n", path, m.Width, m.Height, len(m.Layers), len(m.Spawns))
	}

	if cfg.Dialogs.File != "" {
		lib, err := dialog.LoadLibrary(cfg.Dialogs.File)
		if err != nil {
			cmd.Printf("dialogs %s: %v\n", cfg.Dialogs.File, err)
			failed++
		} else {
			cmd.Printf("dialogs %s: %d scripts\n", cfg.Dialogs.File, lib.Len())
		}
	}

	if failed > 0 {
		return oops.Code("CHECK_FAILED").Errorf("%d file(s) failed to load", failed)
	}
	cmd.Println("ok")
	return nil
}
