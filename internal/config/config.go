package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IlianBuh/Blog-service/internal/config/auth"
	"github.com/IlianBuh/Blog-service/internal/config/blog"
	"github.com/IlianBuh/Blog-service/internal/config/grpcobj"
	cfgHTTP "github.com/IlianBuh/Blog-service/internal/config/http"
	"github.com/IlianBuh/Blog-service/internal/config/kafka"
	"github.com/IlianBuh/Blog-service/internal/config/storage"
	userProvider "github.com/IlianBuh/Blog-service/internal/config/user-provider"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env          string              `json:"env" yaml:"env"`
	Blog         blog.Config         `json:"blog" yaml:"blog"`
	Storage      storage.Config      `json:"storage" yaml:"storage"`
	HTTP         cfgHTTP.Config      `json:"http" yaml:"http"`
	Auth         auth.Config         `json:"auth" yaml:"auth"`
	GRPC         grpcobj.GRPCObj     `json:"grpc" yaml:"grpc"`
	UserProvider userProvider.Config `json:"user-provider" yaml:"user-provider"`
	Kafka        kafka.Config        `json:"kafka" yaml:"kafka"`
}

const (
	defaultConfigPath = "./config/config.yaml"
	defaultLoginURL   = "/auth/login/"
	defaultCookie     = "token"
	defaultTimeout    = 5 * time.Second
	defaultHTTPPort   = 8080

	envConfigPath = "CONFIG_PATH"
	envAuthSecret = "AUTH_SECRET"
	envDBPassword = "DB_PASSWORD"
)

// New creates new object of applications' configuration
func New() *Config {
	// .env is optional
	_ = godotenv.Load()

	path := fetchConfigPath()

	cfg := MustLoad(path)

	return cfg
}

// MustLoad is wrapper of load function to panic if error occurred
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic("failed to load config file: " + err.Error())
	}

	return cfg
}

// Load loads config from json or yaml file by path. Format is chosen by file
// extension: '.json' is decoded as json, anything else as yaml.
// Return error if occurred
func Load(path string) (*Config, error) {
	cfg := new(Config)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(content, cfg)
	} else {
		err = yaml.Unmarshal(content, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// applyEnv overrides secrets with environment variables if they are set
func applyEnv(cfg *Config) {
	if v := os.Getenv(envAuthSecret); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv(envDBPassword); v != "" {
		cfg.Storage.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Blog.PageSize <= 0 {
		cfg.Blog.PageSize = blog.DefaultPageSize
	}
	if cfg.Blog.TitleLength <= 0 {
		cfg.Blog.TitleLength = blog.DefaultTitleLength
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = storage.DriverPQ
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultHTTPPort
	}
	if cfg.HTTP.Timeout.Duration == 0 {
		cfg.HTTP.Timeout.Duration = defaultTimeout
	}
	if cfg.HTTP.LoginURL == "" {
		cfg.HTTP.LoginURL = defaultLoginURL
	}
	if cfg.Auth.Cookie == "" {
		cfg.Auth.Cookie = defaultCookie
	}
	if cfg.GRPC.Timeout.Duration == 0 {
		cfg.GRPC.Timeout.Duration = defaultTimeout
	}
	if cfg.UserProvider.Timeout.Duration == 0 {
		cfg.UserProvider.Timeout.Duration = defaultTimeout
	}
}

// fetchConfigPath fetches config path from either flag 'config' or environment variable.
// If both are empty default value will be returned
// flag > env > default
func fetchConfigPath() string {
	res := ""

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	return ResolvePath(res)
}

// ResolvePath returns path if it is set, otherwise the one from
// CONFIG_PATH or the default one
func ResolvePath(path string) string {
	if path != "" {
		return path
	}

	if res := os.Getenv(envConfigPath); res != "" {
		return res
	}

	return defaultConfigPath
}
