package main

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"chosenoffset.com/christmasbits/internal/clock"
	"chosenoffset.com/christmasbits/internal/config"
	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/game"
	"chosenoffset.com/christmasbits/internal/logging"
	"chosenoffset.com/christmasbits/internal/minigame"
	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render"
	ebitenrender "chosenoffset.com/christmasbits/internal/render/ebiten"
	"chosenoffset.com/christmasbits/internal/sprite"
	"chosenoffset.com/christmasbits/internal/world/maploader"
)

const serviceName = "christmasbits"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command. Run without a subcommand it opens
// the game window.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "christmasbits",
		Short: "Design Christmas Bits - a tiny Christmas party adventure",
		Long: `Design Christmas Bits is a top-down tile adventure: help the party
crew finish their tasks, then follow Alice to the venue to meet Santa.`,
		SilenceUsage: true,
		RunE:         runGame,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewDialogsCmd())
	cmd.AddCommand(NewPlaceholdersCmd())

	return cmd
}

// loadConfig reads the configuration and builds the logger for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(serviceName, version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level), cmd.ErrOrStderr())
	return cfg, logger, nil
}

func runGame(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	renderer := ebitenrender.NewRenderer(cfg.Window.Scale)
	input := ebitenrender.NewInputManager()
	resources := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mgr := game.NewManager(ctx, buildDeps(cfg, logger, renderer, input, resources))
	defer mgr.Close()

	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(true)

	logger.Info("starting game", "width", cfg.Window.Width, "height", cfg.Window.Height)
	if err := engine.RunGame(mgr); err != nil {
		return oops.Code("GAME_FAILED").Wrapf(err, "run game")
	}
	return nil
}

// buildDeps wires the session collaborators from cfg.
func buildDeps(cfg *config.Config, logger *slog.Logger, r render.Renderer, in render.InputManager, res render.ResourceLoader) game.Deps {
	w, h := cfg.Window.Width, cfg.Window.Height

	prompts := minigame.TaskPrompts(r, w, h)
	minigames := make(map[quest.Task]minigame.Game, len(prompts))
	overlays := make([]minigame.Overlay, 0, len(prompts)+1)
	for _, task := range quest.Tasks {
		p, ok := prompts[task]
		if !ok {
			continue
		}
		minigames[task] = p
		overlays = append(overlays, p)
	}
	picker := minigame.NewPicker(r, w, h)
	overlays = append(overlays, picker)

	return game.Deps{
		Config:    cfg,
		Clock:     clock.System{},
		Renderer:  r,
		Input:     in,
		Maps:      maploader.New(res, cfg.Assets.Dir, logger),
		Sprites:   (&sprite.Loader{Resources: res, Dir: cfg.Assets.Dir, Logger: logger}).Load(),
		Scripts:   loadScripts(cfg.Dialogs.File, logger),
		Logger:    logger,
		Minigames: minigames,
		Gifts:     picker,
		Overlays:  overlays,
	}
}

// loadScripts layers the optional script file over the embedded scripts.
// A file that fails to load is logged and skipped.
func loadScripts(path string, logger *slog.Logger) *dialog.Library {
	lib := dialog.DefaultLibrary()
	if path == "" {
		return lib
	}
	extra, err := dialog.LoadLibrary(path)
	if err != nil {
		logging.LogWarn(logger, "dialog file skipped", err)
		return lib
	}
	lib.Merge(extra)
	logger.Info("dialog file loaded", "path", path, "scripts", extra.Len())
	return lib
}
