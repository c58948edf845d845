package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/media"
	"reelcut/internal/media/ffmpeg"
	"reelcut/internal/preflight"
)

type engineFactory func(cfg *config.Config, logger *slog.Logger) (media.Engine, error)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	newEngine engineFactory
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		newEngine:  newFFmpegEngine,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func newFFmpegEngine(cfg *config.Config, logger *slog.Logger) (media.Engine, error) {
	if missing := preflight.MissingBinaries(cfg); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Detail))
		}
		return nil, fmt.Errorf("missing required binaries: %s; run `reelcut check` for details", strings.Join(names, ", "))
	}
	return ffmpeg.New(ffmpeg.Config{
		FFmpegBinary:  cfg.Engine.FFmpegBinary,
		FFprobeBinary: cfg.Engine.FFprobeBinary,
		Preset:        cfg.Engine.Preset,
		CRF:           cfg.Engine.CRF,
	}, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminalReader(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
