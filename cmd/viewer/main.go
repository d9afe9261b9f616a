package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/spf13/cobra"
)

func init() {
	// GLFW and the wgpu surface must live on the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	assets     string
	model      string
	width      int
	height     int
	vsync      bool
	logLevel   string
	profile    bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "viewer",
		Short:        "Interactive glTF model viewer",
		Long:         "Loads a glTF model and a cube environment map and shows them in an orbitable window with live light and material controls.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts.profile)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "TOML configuration file")
	f.StringVar(&opts.assets, "assets", "", "asset root: a directory or an http(s) base URL")
	f.StringVar(&opts.model, "model", "", "glTF model path relative to the asset root")
	f.IntVar(&opts.width, "width", 0, "initial window width")
	f.IntVar(&opts.height, "height", 0, "initial window height")
	f.BoolVar(&opts.vsync, "vsync", true, "wait for vertical blank when presenting")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.profile, "profile", false, "log frame statistics every second")
	return cmd
}

// resolveConfig loads the configuration file and applies the flags the user set on top of it.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("assets") {
		cfg.Assets.Root = opts.assets
	}
	if f.Changed("model") {
		cfg.Assets.Model = opts.model
	}
	if f.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if f.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if f.Changed("vsync") {
		cfg.Window.VSync = opts.vsync
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, profile bool) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := loader.OpenStore(cfg.Assets.Root)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer func() { _ = win.Close() }()

	r, err := newRenderer(cfg, win, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	v, err := viewer.NewViewer(cfg, store, r,
		viewer.WithHost(win),
		viewer.WithProfiling(profile),
		viewer.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer v.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		v.Post(func() {
			v.Loop().Stop()
			_ = win.Close()
		})
	}()

	if err := v.Start(ctx); err != nil {
		return fmt.Errorf("start viewer: %w", err)
	}
	logger.Info("viewer started", "assets", cfg.Assets.Root, "model", cfg.Assets.Model)
	win.ProcessMessages()
	return nil
}

func newRenderer(cfg *config.Config, win window.Window, logger *slog.Logger) (renderer.Renderer, error) {
	cs, err := cfg.OutputColorSpace()
	if err != nil {
		return nil, err
	}
	shadows, err := renderer.ParseShadowMapType(cfg.Renderer.ShadowMapType)
	if err != nil {
		return nil, err
	}
	present := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		present = renderer.PresentModeVSync
	}

	return renderer.NewWGPURenderer(win.SurfaceDescriptor(),
		renderer.WithPresentMode(present),
		renderer.WithOutputColorSpace(cs),
		renderer.WithShadowMapType(shadows),
		renderer.WithPhysicallyCorrectLights(cfg.Renderer.PhysicallyCorrectLights),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithLogger(logger),
	)
}
