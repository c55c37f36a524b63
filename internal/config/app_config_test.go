package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/gitscribe/internal/utils"
)

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name              string
		globalContent     string
		localContent      string
		explicitPath      string
		explicitContent   string
		expectToken       string
		expectReference   string
		expectConcurrency *int
		expectClipboard   *bool
		expectModel       string
		expectServiceURL  string
		expectAddress     string
	}{
		{
			name:              "local_overrides_global",
			globalContent:     "github:\n  token: global-token\n  ref: main\ningest:\n  concurrency: 4\n",
			localContent:      "github:\n  token: local-token\ningest:\n  clipboard: true\ntokens:\n  model: gpt-4o\n",
			expectToken:       "local-token",
			expectReference:   "main",
			expectConcurrency: intPointer(4),
			expectClipboard:   boolPointer(true),
			expectModel:       "gpt-4o",
		},
		{
			name:             "explicit_path_overrides_global",
			globalContent:    "server:\n  address: 127.0.0.1:9000\n",
			explicitPath:     "custom.yaml",
			explicitContent:  "generation:\n  service_url: http://127.0.0.1:7777\n",
			expectServiceURL: "http://127.0.0.1:7777",
			expectAddress:    "127.0.0.1:9000",
		},
		{
			name: "missing_files_yield_zero_configuration",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.GitHub.Token != testCase.expectToken {
				t.Fatalf("expected token %q, got %q", testCase.expectToken, loadedConfig.GitHub.Token)
			}
			if loadedConfig.GitHub.Reference != testCase.expectReference {
				t.Fatalf("expected reference %q, got %q", testCase.expectReference, loadedConfig.GitHub.Reference)
			}
			if testCase.expectConcurrency == nil {
				if loadedConfig.Ingest.Concurrency != nil {
					t.Fatalf("expected no concurrency override")
				}
			} else if loadedConfig.Ingest.Concurrency == nil || *loadedConfig.Ingest.Concurrency != *testCase.expectConcurrency {
				t.Fatalf("unexpected concurrency value")
			}
			if testCase.expectClipboard == nil {
				if loadedConfig.Ingest.Clipboard != nil {
					t.Fatalf("expected no clipboard override")
				}
			} else if loadedConfig.Ingest.Clipboard == nil || *loadedConfig.Ingest.Clipboard != *testCase.expectClipboard {
				t.Fatalf("unexpected clipboard value")
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if loadedConfig.Generation.ServiceURL != testCase.expectServiceURL {
				t.Fatalf("expected service url %q, got %q", testCase.expectServiceURL, loadedConfig.Generation.ServiceURL)
			}
			if loadedConfig.Server.Address != testCase.expectAddress {
				t.Fatalf("expected address %q, got %q", testCase.expectAddress, loadedConfig.Server.Address)
			}
		})
	}
}

func TestMergeClonesPointerValues(t *testing.T) {
	override := ApplicationConfiguration{
		Ingest: IngestConfiguration{Concurrency: intPointer(4), Clipboard: boolPointer(true)},
	}

	merged := ApplicationConfiguration{}.Merge(override)

	*override.Ingest.Concurrency = 99
	*override.Ingest.Clipboard = false

	if merged.Ingest.Concurrency == nil || *merged.Ingest.Concurrency != 4 {
		t.Fatalf("expected cloned concurrency 4, got %+v", merged.Ingest.Concurrency)
	}
	if merged.Ingest.Clipboard == nil || !*merged.Ingest.Clipboard {
		t.Fatalf("expected cloned clipboard true, got %+v", merged.Ingest.Clipboard)
	}
}
