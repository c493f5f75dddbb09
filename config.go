package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	FlashDriverRedis = "redis"
	FlashDriverBolt  = "bolt"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"BKUI_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BKUI_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BKUI_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BKUI_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BKUI_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BKUI_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BKUI_LOG_MAX_SIZE"`
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BKUI_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BKUI_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	Backend                 BackendConfig `yaml:"backend"`
	Flash                   FlashConfig   `yaml:"flash"`
	Redis                   RedisConfig   `yaml:"redis"`
	BoltDB                  BoltDBConfig  `yaml:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKUI_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKUI_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKUI_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKUI_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKUI_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKUI_SERVER_SHUTDOWN_TIMEOUT"`
}

// BackendConfig locates the books REST service.
type BackendConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BKUI_BACKEND_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"BKUI_BACKEND_TIMEOUT"` // zero means no client side limit
	UserAgent string        `yaml:"user_agent" envconfig:"BKUI_BACKEND_USER_AGENT"`
}

// FlashConfig defines where notices survive a redirect.
type FlashConfig struct {
	Driver     string        `yaml:"driver" envconfig:"BKUI_FLASH_DRIVER"`
	TTL        time.Duration `yaml:"ttl" envconfig:"BKUI_FLASH_TTL"`
	CookieName string        `yaml:"cookie_name" envconfig:"BKUI_FLASH_COOKIE_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKUI_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKUI_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKUI_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKUI_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKUI_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKUI_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKUI_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKUI_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKUI_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKUI_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKUI_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKUI_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKUI_BOLTDB_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
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

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.LogFolder == "" {
		config.LogFolder = "logs"
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Backend.BaseURL == "" {
		config.Backend.BaseURL = "http://localhost:8080"
	}
	if u, err := url.Parse(config.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("make sure to set a valid backend base url: %q", config.Backend.BaseURL)
	}

	if config.Backend.UserAgent == "" {
		config.Backend.UserAgent = "bookshelf-ui"
	}

	if config.Flash.CookieName == "" {
		config.Flash.CookieName = "bookshelf.sid"
	}

	if config.Flash.TTL <= 0 {
		config.Flash.TTL = 5 * time.Minute
	}

	switch config.Flash.Driver {
	case "":
		config.Flash.Driver = FlashDriverBolt
		fallthrough
	case FlashDriverBolt:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	case FlashDriverRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unsupported flash driver %q", config.Flash.Driver)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %w", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %w", err)
	}

	// Use environment variables with prefix `BKUI`.
	err = LoadConfigEnvs("BKUI", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %w", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %w", err)
	}
	return config, nil
}
