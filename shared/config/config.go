package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const publicFile = "public.yaml"

type Config struct {
	Public Public
}

type Public struct {
	Server   Server   `yaml:"server"`
	Upstream Upstream `yaml:"upstream"`
	Render   Render   `yaml:"render"`
	Log      Log      `yaml:"log"`
	Dev      bool     `yaml:"dev"` // verbose error pages, template hot reload
}

type Server struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"required"`
	HTTPS           bool          `yaml:"https"` // adds HSTS header
}

type Upstream struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"required"`
	MaxPostId int           `yaml:"max_post_id" validate:"required,min=1"` // ids are picked from [1, max_post_id]
}

type Render struct {
	Delays           []time.Duration `yaml:"delays" validate:"required,min=1,dive,min=0"`
	StaticParams     []string        `yaml:"static_params" validate:"dive,required"`
	BuildConcurrency int             `yaml:"build_concurrency" validate:"required,min=1"`
	TemplatesDir     string          `yaml:"templates_dir"` // empty means embedded templates
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when public.yaml leaves a field out.
func Default() *Config {
	return &Config{Public: Public{
		Server: Server{
			Addr:            ":8081",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: Upstream{
			BaseURL:   "https://jsonplaceholder.typicode.com",
			Timeout:   10 * time.Second,
			MaxPostId: 100,
		},
		Render: Render{
			Delays: []time.Duration{
				0,
				300 * time.Millisecond,
				600 * time.Millisecond,
				900 * time.Millisecond,
				1200 * time.Millisecond,
			},
			StaticParams:     []string{"1", "2", "3", "4", "5"},
			BuildConcurrency: 4,
		},
		Log: Log{Level: "info"},
	}}
}

// Load reads public.yaml from configFolder over the defaults, applies
// environment overrides and validates the result.
func Load(configFolder string) (*Config, error) {
	cfg := Default()

	configPath := path.Join(configFolder, publicFile)
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.UnmarshalStrict(configFile, &cfg.Public); err != nil {
		return nil, fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c.Public); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Public.Server.Addr = ":" + port
	}
	if os.Getenv("ENV") == "development" {
		c.Public.Dev = true
	}
}
