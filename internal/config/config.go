package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Secrets are not stored
// in the YAML file; they come from the environment (or a .env file).
type Config struct {
	ListenAddr  string `yaml:"listenAddr" validate:"required"`
	GenModel    string `yaml:"genModel,omitempty"`
	GmailSender string `yaml:"gmailSender,omitempty"`

	// EnforceCapacity makes join reject a full shift instead of treating
	// required counts as informational
	EnforceCapacity bool `yaml:"enforceCapacity"`

	// NotifySwaps enables swap notification emails via Gmail
	NotifySwaps bool `yaml:"notifySwaps"`

	// From environment
	DatabaseURL string `yaml:"-" validate:"required"`
	JWTSecret   string `yaml:"-" validate:"required"`
	GenAPIKey   string `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment
// suffix. For example, env="test" will look for "rosterd.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	// Best effort; the environment itself may already carry the secrets
	godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.GenAPIKey = os.Getenv("GENAI_API_KEY")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and
// the user's home directory
func findConfigFile(env string) (string, error) {
	configFileName := "rosterd.yaml"
	if env != "" {
		configFileName = "rosterd." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
