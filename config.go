package ometa

import "github.com/BurntSushi/toml"

// Config is the demo CLI's on-disk configuration, loaded with
// BurntSushi/toml the way dekarrin-tunaq/internal/tqw/tqw.go loads its
// world manifests.
type Config struct {
	GrammarFile string `toml:"grammar_file"`
	DefaultRule string `toml:"default_rule"`
	Debug       bool   `toml:"debug"`
}

// LoadConfig reads and decodes a TOML config file at path.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
