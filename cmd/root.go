package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Whiteboard/internal/config"
	"Whiteboard/internal/store"
	"Whiteboard/internal/ui"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var (
	saveDir    string
	backendURL string
	penColor   string
	penSize    float64
	eraserSize float64
	shareAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "whiteboard",
	Short: "A drawing board for sketches and BPMN diagrams",
	Long: `whiteboard opens a drawing board for free-hand sketches, shapes and
BPMN process diagrams. Boards are saved as JSON documents either to a local
directory or to a whiteboard backend started with "whiteboard serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Flags win over both config files.
		flags := cmd.Flags()
		if flags.Changed("dir") {
			cfg.SaveDir = saveDir
		}
		if flags.Changed("backend") {
			cfg.BackendURL = backendURL
		}
		if flags.Changed("color") {
			cfg.PenColor = penColor
		}
		if flags.Changed("thickness") {
			cfg.PenThickness = penSize
		}
		if flags.Changed("eraser") {
			cfg.EraserSize = eraserSize
		}
		if flags.Changed("share") {
			cfg.ShareAddr = shareAddr
		}
		return cfg.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(cfg)
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// openStore picks the backend client when a backend URL is configured and
// the save directory otherwise.
func openStore() (store.Store, error) {
	return store.Open(cfg.SaveDir, cfg.BackendURL)
}

// commandContext is the context of a running command, falling back to
// Background when the command was started without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&saveDir, "dir", "", "directory boards are saved to (overrides config)")
	pf.StringVar(&backendURL, "backend", "", "backend API URL, e.g. http://host:3000/whiteboard (overrides config)")

	f := rootCmd.Flags()
	f.StringVar(&penColor, "color", "", "initial pen colour")
	f.Float64Var(&penSize, "thickness", 0, "initial pen thickness")
	f.Float64Var(&eraserSize, "eraser", 0, "initial eraser size")
	f.StringVar(&shareAddr, "share", "", "stream the board live on this address, e.g. :3001")
}
