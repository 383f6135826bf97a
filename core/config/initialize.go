package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Initialize writes the default configuration into dir unless one is already
// there, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := os.Stat(configPath); {
	case err == nil:
		logger.Printf("%s already exists, skipping\n", configPath)
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("Writing %s\n", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return Load(dir)
}
