package main

import (
	"github.com/spf13/cobra"

	"chosenoffset.com/christmasbits/internal/placeholders"
)

// NewPlaceholdersCmd creates the placeholders subcommand.
func NewPlaceholdersCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "Generate placeholder art and maps",
		Long: `Write a placeholder tileset, every sprite sheet the game loads and
both Tiled maps, so the game runs without its asset pack. Files go to the
configured asset directory unless --out is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := out
			if dir == "" {
				dir = cfg.Assets.Dir
			}
			starts := placeholders.Starts{Overworld: cfg.Story.PlayerStart, Venue: cfg.Story.VenueStart}
			written, err := placeholders.Generate(dir, starts, logger)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %d files to %s\n", len(written), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory")
	return cmd
}
