// Package main is the entry point for the STL viewer.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/config"
	"github.com/Faultbox/stlview/internal/logger"
	"github.com/Faultbox/stlview/internal/viewer"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:   "stlview [model.stl]",
		Short: "Interactive STL model viewer",
		Long: `stlview - Interactive STL model viewer

Opens a binary or text STL file, scales it into view and lights it with a
movable point light. Models load in the background; the window keeps
responding while a large file parses.

Controls:
  A/D S/W F/R   Move the light (while lit)
  4/3 1/2       Pitch and yaw the model
  Mouse drag    Rotate the model
  [ ] / Wheel   Scale
  L T Space B   Toggle light, texture, drawing, bounds
  K/I J/U       Light intensity, ambient
  H/Y ;/P       Diffuse, specular
  O             Open a model or texture
  F5            Reload the model
  F12           Screenshot
  Esc           Quit

Dropping an .stl file on the window opens it; dropping an image uses it as
the texture.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(flags, args)
		},
	}
	flags = config.BindFlags(cmd.Flags())

	cmd.AddCommand(newInfoCmd())
	return cmd
}

func runViewer(flags *config.Flags, args []string) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if len(args) == 1 {
		cfg.Model.Path = args[0]
	}

	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Console: os.Stdout,
		JSON:    cfg.Logging.JSON,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== STL Viewer ===", zap.String("version", version))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if flags.SaveConfig {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("config saved", zap.String("path", config.Path()))
		return nil
	}

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return err
	}
	defer v.Close()

	v.Run()

	logger.Info("viewer closed normally")
	return nil
}
