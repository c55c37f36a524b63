package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/gitscribe/internal/utils"
)

// InitTarget selects where the starter configuration file lands.
type InitTarget string

const (
	// InitTargetLocal writes the file into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes the file into the per-user configuration directory.
	InitTargetGlobal InitTarget = "global"
)

const starterConfigurationTemplate = `github:
  token: ""
  api_base_url: ""
  ref: ""
ingest:
  concurrency: 8
  rules: ""
  clipboard: false
tokens:
  model: heuristic
generation:
  service_url: http://127.0.0.1:8080
  timeout_seconds: 120
server:
  address: 127.0.0.1:8080
  model: gemini-2.5-flash
  cache_size: 128
`

// InitOptions controls configuration initialization.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the starter configuration to the requested
// target and returns the written path. An existing file is preserved unless
// Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveErr := resolveInitPath(options.Target, options.WorkingDirectory)
	if resolveErr != nil {
		return "", resolveErr
	}

	if _, statErr := os.Stat(destinationPath); statErr == nil && !options.Force {
		return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statErr)
	}

	if writeErr := os.WriteFile(destinationPath, []byte(starterConfigurationTemplate), 0o600); writeErr != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeErr)
	}
	return destinationPath, nil
}

func resolveInitPath(target InitTarget, workingDirectory string) (string, error) {
	switch target {
	case InitTargetLocal, "":
		if workingDirectory == "" {
			currentDirectory, workingDirErr := os.Getwd()
			if workingDirErr != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", workingDirErr)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", homeErr)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirErr := os.MkdirAll(configurationDirectory, 0o755); mkdirErr != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, mkdirErr)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	}
	return "", fmt.Errorf("unsupported init target %q", target)
}
