// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Store backends accepted by the store key.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreBoth   = "both"
)

// DefaultFile is read when no config path is given.
const DefaultFile = "site.yaml"

// SiteConfig holds the configuration from the site.yaml file.
type SiteConfig struct {
	Title          string `mapstructure:"title"`
	Description    string `mapstructure:"description"`
	BaseURL        string `mapstructure:"baseURL"`
	Language       string `mapstructure:"language"`
	Author         string `mapstructure:"author"`
	PostsPerPage   int    `mapstructure:"postsPerPage"`
	ContentDir     string `mapstructure:"contentDir"`
	GeneratedDir   string `mapstructure:"generatedDir"`
	OutputDir      string `mapstructure:"outputDir"`
	TemplateDir    string `mapstructure:"templateDir"`
	Template       string `mapstructure:"template"`
	StaticDir      string `mapstructure:"staticDir"`
	FeedPath       string `mapstructure:"feedPath"`
	ImageType      string `mapstructure:"imageType"`
	Store          string `mapstructure:"store"`
	SQLitePath     string `mapstructure:"sqlitePath"`
	HighlightStyle string `mapstructure:"highlightStyle"`

	// File is the config file actually read, empty when defaults were used.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "From the Depths Blog")
	v.SetDefault("description", "Blog posts from From the Depths")
	v.SetDefault("baseURL", "https://youngbloods.org")
	v.SetDefault("language", "en")
	v.SetDefault("author", "")
	v.SetDefault("postsPerPage", 10)
	v.SetDefault("contentDir", "content/posts")
	v.SetDefault("generatedDir", "app/generated")
	v.SetDefault("outputDir", "public")
	v.SetDefault("templateDir", "templates")
	v.SetDefault("template", "default")
	v.SetDefault("staticDir", "static")
	v.SetDefault("feedPath", "rss.xml")
	v.SetDefault("imageType", "image/jpeg")
	v.SetDefault("store", StoreJSON)
	v.SetDefault("sqlitePath", "app/generated/blog.db")
	v.SetDefault("highlightStyle", "monokai")
}

// LoadSiteConfig reads path (or site.yaml when path is empty) layered over
// the defaults, with DEPTHS_-prefixed environment variables on top. A
// missing file is not an error unless path was given explicitly.
func LoadSiteConfig(path string) (SiteConfig, error) {
	v := viper.New()
	setDefaults(v)

	file := path
	if file == "" {
		file = DefaultFile
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DEPTHS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
		case errors.Is(err, os.ErrNotExist):
			return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", file, err)
		default:
			return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", file, err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Validate rejects values no build can work with.
func (c SiteConfig) Validate() error {
	if c.PostsPerPage < 1 {
		return fmt.Errorf("postsPerPage must be at least 1, got %d", c.PostsPerPage)
	}
	switch c.Store {
	case StoreJSON, StoreSQLite, StoreBoth:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreJSON, StoreSQLite, StoreBoth)
	}
	return nil
}
