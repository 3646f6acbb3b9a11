package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config and data directories.
const AppName = "doccrawl"

// defaultConfigPath returns $XDG_CONFIG_HOME/doccrawl/config.yaml, or the
// DOCCRAWL_CONFIG override.
func defaultConfigPath() string {
	if path := os.Getenv("DOCCRAWL_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// defaultDBPath returns $XDG_DATA_HOME/doccrawl/history.db, or the
// DOCCRAWL_DB override.
func defaultDBPath() string {
	if path := os.Getenv("DOCCRAWL_DB"); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, AppName, "history.db")
}

func ensureParentDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", path, err)
	}
	return nil
}

// YAMLResolver is a kong.ConfigurationLoader reading flag defaults from
// YAML. Keys are flag names with dashes or underscores. A mapping named
// after a command holds defaults for that command only and wins over
// top-level keys:
//
//	delay: 500ms
//	crawl:
//	  max_pages: 200
//	  backend: colly
func YAMLResolver(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid YAML configuration: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}
	return f, nil
}

func lookup(values map[string]any, name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := values[key]; ok {
			if _, nested := v.(map[string]any); nested {
				continue
			}
			return v, true
		}
	}
	return nil, false
}
