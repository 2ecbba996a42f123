package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		Dir          string `yaml:"dir"`
		ArtifactsDir string `yaml:"artifactsDir"`
	} `yaml:"data"`

	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load reads the yaml config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, for running without a
// config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.ArtifactsDir == "" {
		c.Data.ArtifactsDir = "artifacts"
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"http://localhost:3006"}
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	for i, o := range c.CORS.Origins {
		c.CORS.Origins[i] = strings.TrimSpace(o)
	}
}

// DataFile resolves a collection or log file name inside the data directory.
func (c *Config) DataFile(name string) string {
	return filepath.Join(c.Data.Dir, name)
}

// EvidencePacksDir is where generated evidence packs are materialized.
func (c *Config) EvidencePacksDir() string {
	return filepath.Join(c.Data.ArtifactsDir, "evidence_packs")
}
