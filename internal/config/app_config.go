// Package config loads layered application configuration for the gitscribe CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/gitscribe/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command defaults loaded from the global and
// local configuration files. Flags override whatever is loaded here.
type ApplicationConfiguration struct {
	GitHub     GitHubConfiguration     `mapstructure:"github"`
	Ingest     IngestConfiguration     `mapstructure:"ingest"`
	Tokens     TokenConfiguration      `mapstructure:"tokens"`
	Generation GenerationConfiguration `mapstructure:"generation"`
	Server     ServerConfiguration     `mapstructure:"server"`
}

// GitHubConfiguration carries repository access defaults.
type GitHubConfiguration struct {
	Token      string `mapstructure:"token"`
	APIBaseURL string `mapstructure:"api_base_url"`
	Reference  string `mapstructure:"ref"`
}

// IngestConfiguration carries aggregation defaults.
type IngestConfiguration struct {
	Concurrency *int   `mapstructure:"concurrency"`
	RulesPath   string `mapstructure:"rules"`
	Clipboard   *bool  `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// GenerationConfiguration points the readme and deploy commands at the
// generation service.
type GenerationConfiguration struct {
	ServiceURL     string `mapstructure:"service_url"`
	TimeoutSeconds *int   `mapstructure:"timeout_seconds"`
}

// ServerConfiguration carries defaults for the serve command.
type ServerConfiguration struct {
	Address   string `mapstructure:"address"`
	Model     string `mapstructure:"model"`
	CacheSize *int   `mapstructure:"cache_size"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.GitHub = result.GitHub.merge(override.GitHub)
	result.Ingest = result.Ingest.merge(override.Ingest)
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Generation = result.Generation.merge(override.Generation)
	result.Server = result.Server.merge(override.Server)
	return result
}

func (config GitHubConfiguration) merge(override GitHubConfiguration) GitHubConfiguration {
	result := config
	if override.Token != "" {
		result.Token = override.Token
	}
	if override.APIBaseURL != "" {
		result.APIBaseURL = override.APIBaseURL
	}
	if override.Reference != "" {
		result.Reference = override.Reference
	}
	return result
}

func (config IngestConfiguration) merge(override IngestConfiguration) IngestConfiguration {
	result := config
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	if override.RulesPath != "" {
		result.RulesPath = override.RulesPath
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config GenerationConfiguration) merge(override GenerationConfiguration) GenerationConfiguration {
	result := config
	if override.ServiceURL != "" {
		result.ServiceURL = override.ServiceURL
	}
	if override.TimeoutSeconds != nil {
		result.TimeoutSeconds = cloneInt(override.TimeoutSeconds)
	}
	return result
}

func (config ServerConfiguration) merge(override ServerConfiguration) ServerConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.CacheSize != nil {
		result.CacheSize = cloneInt(override.CacheSize)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
