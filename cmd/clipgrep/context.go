package main

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipgrep/internal/config"
	"clipgrep/internal/embed"
	"clipgrep/internal/logging"
	"clipgrep/internal/search"
	"clipgrep/internal/transcript"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *transcript.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			FilePath: cfg.Paths.LogFile,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) transcriptStore() *transcript.Store {
	c.storeOnce.Do(func() {
		logger, _ := c.ensureLogger()
		c.store = transcript.NewStore(logger)
	})
	return c.store
}

// embeddingIndex returns the semantic index, or nil when no API key is
// configured. The search engine treats a nil index as the capability being
// unavailable.
func (c *commandContext) embeddingIndex() *embed.Index {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	logger, _ := c.ensureLogger()
	provider, err := embed.NewHTTPProvider(embed.HTTPConfig{
		APIKey:  cfg.Embeddings.APIKey,
		BaseURL: cfg.Embeddings.BaseURL,
		Model:   cfg.Embeddings.Model,
	})
	if err != nil {
		return nil
	}
	return embed.NewIndex(provider, logger)
}

// searchEngine builds an engine; seed fixes the mash random source when
// non-zero so runs can be reproduced.
func (c *commandContext) searchEngine(seed int64) (*search.Engine, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	return search.NewEngine(c.transcriptStore(), c.embeddingIndex(), rng, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
