// Package theme reads the UI colours from a TOML file with a [theme] table.
package theme

import (
	"errors"
	"fmt"
	"io/fs"

	"search-agent/internal/domain/entity"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "config.toml"

type file struct {
	Theme entity.Theme `toml:"theme"`
}

// Load returns the default theme overlaid with the values found at path.
// A missing file is not an error, and keys other than the known colours
// and font are ignored.
func Load(path string) (entity.Theme, error) {
	if path == "" {
		path = DefaultPath
	}

	var f file
	_, err := toml.DecodeFile(path, &f)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.DefaultTheme(), nil
	}
	if err != nil {
		return entity.DefaultTheme(), fmt.Errorf("failed to read theme %s: %w", path, err)
	}

	return f.Theme.Merge(entity.DefaultTheme()), nil
}
