package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateCompose(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.SemanticThreshold < 0 || c.Search.SemanticThreshold > 1 {
		return errors.New("search.semantic_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateCompose() error {
	if c.Compose.FragmentPadding < 0 {
		return errors.New("compose.fragment_padding must not be negative")
	}
	if c.Compose.MashPadding < 0 {
		return errors.New("compose.mash_padding must not be negative")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.BatchSize <= 0 {
		return errors.New("export.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
