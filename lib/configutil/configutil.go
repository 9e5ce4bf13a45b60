package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// reads a json5 configuration file. next to `<name>.<ext>` a
// `<name>.local.<ext>` may exist, its values override the base file.
func ReadConfig[T any](name string) (T, error) {
	var out T

	base, err := readInto(name, &out)
	if err != nil {
		return out, err
	}

	ext := filepath.Ext(name)
	localName := strings.TrimSuffix(name, ext) + ".local" + ext

	var override T
	local, err := readInto(localName, &override)
	if err != nil {
		return out, err
	}
	if local {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localName)
	}

	if !base && !local {
		return out, os.ErrNotExist
	}
	return out, nil
}

func readInto[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// ReadConfig but it walks up the filesystem from the cwd until the root to
// find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			parent := filepath.Dir(current)
			if parent == current {
				return defaultOut, os.ErrNotExist
			}
			current = parent
			continue
		}
		return config, err
	}
}
