package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "./config.yml"
	DefaultEnvFile    = "./config.env"
	DefaultAPIBaseURL = "http://127.0.0.1:8000/api/v1"
	DefaultSessionKey = "ol_access_token"
	EnvPrefix         = "OLIB"
)

// Supported session storage backends.
const (
	StorageBolt   = "bolt"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"OLIB_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"OLIB_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"OLIB_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"OLIB_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"OLIB_LOG_LEVEL"`
	LogFolder    string        `yaml:"log_folder" envconfig:"OLIB_LOG_FOLDER"`
	LogMaxSize   int           `yaml:"log_max_size" envconfig:"OLIB_LOG_MAX_SIZE"`
	API          APIConfig     `yaml:"api"`
	Session      SessionConfig `yaml:"session"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
	Redis        RedisConfig   `yaml:"redis"`
}

type APIConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"OLIB_API_BASE_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"OLIB_API_REQUEST_TIMEOUT"`
	UserAgent      string        `yaml:"user_agent" envconfig:"OLIB_API_USER_AGENT"`
}

type SessionConfig struct {
	Storage        string `yaml:"storage" envconfig:"OLIB_SESSION_STORAGE"`
	Key            string `yaml:"key" envconfig:"OLIB_SESSION_KEY"`
	ExpireOn       string `yaml:"expire_on" envconfig:"OLIB_SESSION_EXPIRE_ON"`
	SealPassphrase string `yaml:"seal_passphrase" envconfig:"OLIB_SESSION_SEAL_PASSPHRASE"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"OLIB_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"OLIB_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"OLIB_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"OLIB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"OLIB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"OLIB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"OLIB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"OLIB_REDIS_WRITE_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"OLIB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"OLIB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"OLIB_REDIS_DATABASE_INDEX"`
	TokenTTL      time.Duration `yaml:"token_ttl" envconfig:"OLIB_REDIS_TOKEN_TTL"`
}

// DefaultConfig provides the values used when neither the file
// nor the environment sets a parameter.
func DefaultConfig() *Config {
	home := dataHome()
	return &Config{
		IsProduction: true,
		LogLevel:     zapcore.InfoLevel,
		LogFolder:    filepath.Join(home, "logs"),
		LogMaxSize:   10,
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			RequestTimeout: 15 * time.Second,
			UserAgent:      "olib",
		},
		Session: SessionConfig{
			Storage:  StorageBolt,
			Key:      DefaultSessionKey,
			ExpireOn: ExpireOnAnyFailure,
		},
		BoltDB: BoltDBConfig{
			FilePath:   filepath.Join(home, "session.db"),
			Timeout:    time.Second,
			BucketName: "session",
		},
		Redis: RedisConfig{
			Host:         "127.0.0.1",
			Port:         "6379",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}

// dataHome is the folder holding the session database and logs.
func dataHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".olib")
	}
	return ".olib"
}

// LoadConfigFile decodes the yaml file on top of the given config.
func LoadConfigFile(configFile string, config *Config) error {
	file, err := os.Open(configFile)
	if err != nil {
		return err
	}
	defer file.Close()
	err = yaml.NewDecoder(file).Decode(config)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// LoadConfigEnvs reads the environments variables into the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig configures build tags values to be used if provided
// then validates and normalizes the final configuration.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	base, err := NormalizeBaseURL(config.API.BaseURL)
	if err != nil {
		return err
	}
	config.API.BaseURL = base

	switch config.Session.Storage {
	case StorageBolt:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration")
		}
	case StorageRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown session storage %q", config.Session.Storage)
	}

	if len(config.Session.Key) == 0 {
		config.Session.Key = DefaultSessionKey
	}

	switch config.Session.ExpireOn {
	case ExpireOnUnauthorized, ExpireOnAnyFailure:
	default:
		return fmt.Errorf("unknown session expiry policy %q", config.Session.ExpireOn)
	}

	if config.LogMaxSize <= 0 {
		return errors.New("log max size must be positive")
	}
	return nil
}

// NormalizeBaseURL strips trailing slashes and ensures the url is absolute.
func NormalizeBaseURL(raw string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid api base url %q: expect absolute http(s) url", raw)
	}
	return base, nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The default config file and env file
// are optional while an explicitly requested config file must exist.
func LoadAndInitConfigs(configFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	config := DefaultConfig()

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile
	}
	err := LoadConfigFile(configFile, config)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, fmt.Errorf("failed to load configurations from file: %w", err)
	}

	// Set the environment configuration.
	err = godotenv.Load(DefaultEnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to set environment configurations: %w", err)
	}

	// Use environment variables with prefix `OLIB`.
	err = LoadConfigEnvs(EnvPrefix, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configurations from environment: %w", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize configurations: %w", err)
	}
	return config, nil
}
