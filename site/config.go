package site

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// Config contains configuration data from the inkwell.cfg file.
type Config struct {
	SiteTitle     string            `toml:"sitetitle"`     // Title shown by the default templates
	Expires       Duration          `toml:"expires"`       // Expiry for rendered pages
	StaticExpires Duration          `toml:"staticexpires"` // Expiry for static assets
	Headers       map[string]string `toml:"headers"`       // Extra response headers
}

// Config returns configuration from the inkwell.cfg file.
// It is not an error if the file does not exist.
func (vfs *FS) Config() (*Config, error) {
	var cfg Config
	cfgBytes, err := fs.ReadFile(vfs.fs, "inkwell.cfg")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}
	err = toml.Unmarshal(cfgBytes, &cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}
	return &cfg, nil
}
