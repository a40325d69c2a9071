package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/macropower/compass/api/v1beta1/configs"
)

// Load reads the compass configuration at path.
//
// An empty path reads the user configuration from [configs.GetPath], and
// falls back to the defaults when that file does not exist.
func Load(path string, opts ...LoaderOpt) (*configs.Config, error) {
	if path == "" {
		path = configs.GetPath()

		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no configuration file, using defaults", slog.String("path", path))

			return configs.New(), nil
		}
	}

	l, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator(), opts...)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	err = l.Validate()
	if err != nil {
		return nil, err
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("loaded configuration",
		slog.String("path", path),
		slog.Int("checks", len(cfg.Checks)),
	)

	return cfg, nil
}
