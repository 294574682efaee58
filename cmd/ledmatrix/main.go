package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/daemon"
)

var (
	configPath = ""
	driver     = ""
	fps        = 0
	pacing     = ""
	pattern    = ""
	previewAt  = ""
	verbose    = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file (.yaml or .toml)")
	pflag.StringVarP(&driver, "driver", "d", driver, "engine: ws2811 | spi | sim")
	pflag.IntVar(&fps, "fps", fps, "frames per second")
	pflag.StringVar(&pacing, "pacing", pacing, "frame pacing: sleep | wait")
	pflag.StringVar(&pattern, "pattern", pattern, fmt.Sprintf("animation %v", animation.DefaultRegistry().List()))
	pflag.StringVar(&previewAt, "preview", previewAt, "preview HTTP listen address, e.g. :8080")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := run(); err != nil {
		log.Error().Err(err).Msg("ledmatrix failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.NewDaemon(cfg, daemon.Options{Logger: &log.Logger})
	if err != nil {
		return errors.Wrap(err, "failed to create daemon")
	}
	log.Info().
		Str("driver", cfg.Driver).
		Str("pattern", cfg.Pattern).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("fps", cfg.FPS).
		Msg("starting")

	if err := d.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("shut down")
	return nil
}

// loadConfig reads the config file when one is given and applies flags on
// top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = c
	}

	if driver != "" {
		cfg.Driver = driver
	}
	if fps != 0 {
		cfg.FPS = fps
	}
	if pacing != "" {
		cfg.Pacing = pacing
	}
	if pattern != "" {
		cfg.Pattern = pattern
	}
	if previewAt != "" {
		cfg.PreviewAddr = previewAt
	}
	return cfg, nil
}
