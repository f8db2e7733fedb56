package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	ListenAddr       string        `yaml:"listen_addr"`
	JwtTTL           time.Duration `yaml:"jwt_ttl"`            // nanoseconds in yaml
	MaxLoginAttempts int           `yaml:"max_login_attempts"` // failures before lockout
	LockoutDuration  time.Duration `yaml:"lockout_duration"`   // nanoseconds in yaml
	LogLevel         string        `yaml:"log_level"`
	LogJSON          bool          `yaml:"log_json"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder.
// Panics on any error: the service can't run without valid config.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.ListenAddr == "" {
		s.Public.ListenAddr = ":8080"
	}
	if s.Public.JwtTTL == 0 {
		s.Public.JwtTTL = 24 * time.Hour
	}
	if s.Public.MaxLoginAttempts == 0 {
		s.Public.MaxLoginAttempts = 5
	}
	if s.Public.LockoutDuration == 0 {
		s.Public.LockoutDuration = 5 * time.Minute
	}
	if s.Public.LogLevel == "" {
		s.Public.LogLevel = "info"
	}
}
