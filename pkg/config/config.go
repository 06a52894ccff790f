package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"

	"gopkg.in/yaml.v2"
)

const DEFAULT_CONFIG_FILE_PATH = "/app/config/config.yaml"

type AppConfig struct {
	ListenAddress     string       `yaml:"listenAddress"`
	IssuerID          string       `yaml:"issuerId"`
	IssuerIDCovidcard string       `yaml:"issuerIdCovidcard"`
	LoyaltyProgram    string       `yaml:"loyaltyProgram"`
	Website           string       `yaml:"website"`
	AllowedOrigins    []string     `yaml:"allowedOrigins"`
	WalletAPI         *WalletAPI   `yaml:"walletApi"`
	Credentials       *Credentials `yaml:"credentials"`
}

type WalletAPI struct {
	BaseURL string `yaml:"baseUrl"`
}

type Credentials struct {
	ClientEmail string `yaml:"clientEmail"`
	PrivateKey  string `yaml:"privateKey"`
}

func GetAppConfig() (*AppConfig, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DEFAULT_CONFIG_FILE_PATH
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parseAppConfig(data)
}

func parseAppConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml configuration: %w", err)
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "0.0.0.0:8080"
	}

	if cfg.WalletAPI == nil {
		cfg.WalletAPI = &WalletAPI{}
	}

	if cfg.WalletAPI.BaseURL == "" {
		cfg.WalletAPI.BaseURL = "https://walletobjects.googleapis.com/walletobjects/v1"
	}

	if err := resolveEnvVariables(&cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if cfg.IssuerID == "" {
		return fmt.Errorf("issuerId must not be empty")
	}

	if cfg.IssuerIDCovidcard == "" {
		return fmt.Errorf("issuerIdCovidcard must not be empty")
	}

	if cfg.LoyaltyProgram == "" {
		return fmt.Errorf("loyaltyProgram must not be empty")
	}

	if len(cfg.AllowedOrigins) == 0 {
		return fmt.Errorf("allowedOrigins must not be empty")
	}

	if cfg.Credentials == nil {
		return fmt.Errorf("credentials must be provided")
	}

	if cfg.Credentials.ClientEmail == "" {
		return fmt.Errorf("credentials clientEmail must not be empty")
	}

	if cfg.Credentials.PrivateKey == "" {
		return fmt.Errorf("credentials privateKey must not be empty")
	}

	return nil
}

var envVarRegex = regexp.MustCompile(`^\$\{([^}]+)\}$`)

func resolveEnvVariablesUtil(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		switch {
		case field.Kind() == reflect.String:
			matches := envVarRegex.FindStringSubmatch(field.String())

			if len(matches) > 1 {
				envVarName := matches[1]

				value, exists := os.LookupEnv(envVarName)
				if !exists {
					return fmt.Errorf("environment variable %s not set", envVarName)
				}

				field.SetString(value)
			}
		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
			for j := 0; j < field.Len(); j++ {
				matches := envVarRegex.FindStringSubmatch(field.Index(j).String())

				if len(matches) > 1 {
					envVarName := matches[1]

					value, exists := os.LookupEnv(envVarName)
					if !exists {
						return fmt.Errorf("environment variable %s not set", envVarName)
					}

					field.Index(j).SetString(value)
				}
			}
		case field.Kind() == reflect.Struct:
			if err := resolveEnvVariablesUtil(field); err != nil {
				return err
			}
		case field.Kind() == reflect.Ptr && !field.IsNil() && field.Elem().Kind() == reflect.Struct:
			if err := resolveEnvVariablesUtil(field.Elem()); err != nil {
				return err
			}
		}
	}

	return nil
}

func resolveEnvVariables(cfg *AppConfig) error {
	return resolveEnvVariablesUtil(reflect.ValueOf(cfg))
}
