// Package config loads the preparation toolkit configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/dataprep/pkg/prep/internalerr"
)

// DateLayout is the calendar-date form used throughout the configuration.
const DateLayout = "2006-01-02"

// Config is the top-level configuration
type Config struct {
	Reddit  Reddit  `yaml:"reddit"`
	Twitter Twitter `yaml:"twitter"`
	Columns Columns `yaml:"columns"`
	Store   Store   `yaml:"store"`
}

// Reddit configures the compressed-archive ingestion path
type Reddit struct {
	BaseDir   string   `yaml:"base_dir"`
	OutputDir string   `yaml:"output_dir"`
	Sources   []string `yaml:"sources"`
	From      string   `yaml:"from"`
	To        string   `yaml:"to"`
	ChunkSize int      `yaml:"chunk_size"`
}

// Twitter configures the tabular merge path
type Twitter struct {
	Inputs []Input `yaml:"inputs"`
	Output string  `yaml:"output"`
	Clean  bool    `yaml:"clean"`
}

// Input is one labeled CSV export
type Input struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// Columns holds the ordered column-name candidate lists. The lists are
// heuristics over column names; there is no declared schema contract with
// upstream producers, so they are configuration rather than constants.
type Columns struct {
	ID       []string `yaml:"id"`
	Text     []string `yaml:"text"`
	Hashtags []string `yaml:"hashtags"`
	Datetime []string `yaml:"datetime"`
}

// Store configures the dataset catalog
type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration defaults matching the original corpus.
func Default() Config {
	return Config{
		Reddit: Reddit{
			From:      "2020-10-15",
			To:        "2020-11-08",
			ChunkSize: 1 << 23,
		},
		Columns: Columns{
			ID:       []string{"tweet_id", "id", "tweetId", "status_id", "tweetid"},
			Text:     []string{"text", "tweet", "content", "message"},
			Hashtags: []string{"hashtags", "hashtag", "tags"},
			Datetime: []string{"created_at", "tweet_created", "date", "timestamp"},
		},
	}
}

// Load reads a YAML configuration file, applying defaults for anything
// the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	from, err := time.Parse(DateLayout, c.Reddit.From)
	if err != nil {
		return fmt.Errorf("%w: reddit.from %q: %v", internalerr.ErrInvalidConfig, c.Reddit.From, err)
	}
	to, err := time.Parse(DateLayout, c.Reddit.To)
	if err != nil {
		return fmt.Errorf("%w: reddit.to %q: %v", internalerr.ErrInvalidConfig, c.Reddit.To, err)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: reddit window ends before it starts (%s > %s)", internalerr.ErrInvalidConfig, c.Reddit.From, c.Reddit.To)
	}
	if c.Reddit.ChunkSize <= 0 {
		return fmt.Errorf("%w: reddit.chunk_size must be positive", internalerr.ErrInvalidConfig)
	}
	for i, in := range c.Twitter.Inputs {
		if in.Path == "" {
			return fmt.Errorf("%w: twitter.inputs[%d] has no path", internalerr.ErrInvalidConfig, i)
		}
	}
	return nil
}

// WindowDates parses the configured inclusive date window.
func (c Config) WindowDates() (from, to time.Time, err error) {
	from, err = time.Parse(DateLayout, c.Reddit.From)
	if err != nil {
		return
	}
	to, err = time.Parse(DateLayout, c.Reddit.To)
	return
}
