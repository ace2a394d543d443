package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// backupCount is how many rotated copies Save keeps (.back1 newest)
const backupCount = 3

// Save writes cfg as TOML, rotating up to three backups of the previous file.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// createBackup rotates .back2 -> .back3, .back1 -> .back2 and copies the
// current file to .back1.
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	oldest := backupPath(path, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		// not fatal, the rename below overwrites it
		logger.ComponentLogger("config").Warnw("failed to delete old backup",
			logger.FieldFile, oldest,
			logger.FieldError, err)
	}
	for i := backupCount - 1; i >= 1; i-- {
		from := backupPath(path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupPath(path, i+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(backupPath(path, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
