package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitscribe/internal/github"
)

type ruleFile struct {
	IncludeExtensions []string `yaml:"include_exts"`
	SkipDirectory     string   `yaml:"skip_dir_pattern"`
	DropExpressions   []string `yaml:"drop_line_regexps"`
}

// RuleSet narrows which entries participate in rendering and aggregation.
// The zero value keeps every entry and leaves content untouched.
type RuleSet struct {
	IncludeExtensions []string
	SkipDirectory     string
	DropExpressions   []string
}

// LoadRuleSet reads a YAML rule file. An empty path yields the zero rule set.
func LoadRuleSet(path string) (RuleSet, error) {
	if path == "" {
		return RuleSet{}, nil
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return RuleSet{}, fmt.Errorf("read rules from %s: %w", path, readErr)
	}
	var raw ruleFile
	if unmarshalErr := yaml.Unmarshal(data, &raw); unmarshalErr != nil {
		return RuleSet{}, fmt.Errorf("parse rules from %s: %w", path, unmarshalErr)
	}
	ruleSet := RuleSet{
		IncludeExtensions: raw.IncludeExtensions,
		SkipDirectory:     raw.SkipDirectory,
		DropExpressions:   raw.DropExpressions,
	}
	if _, prepareErr := ruleSet.prepare(); prepareErr != nil {
		return RuleSet{}, fmt.Errorf("invalid rules in %s: %w", path, prepareErr)
	}
	return ruleSet, nil
}

// FilterEntries applies the rule set to a listing in traversal order.
// Directories matched by the skip pattern drop together with everything
// beneath them; files with extensions outside the include list drop
// individually. An empty include list admits every extension.
func (ruleSet RuleSet) FilterEntries(entries []github.Entry) ([]github.Entry, error) {
	prepared, prepareErr := ruleSet.prepare()
	if prepareErr != nil {
		return nil, prepareErr
	}
	var skippedPrefixes []string
	filtered := make([]github.Entry, 0, len(entries))
	for _, entry := range entries {
		if underSkippedPrefix(skippedPrefixes, entry.Path) {
			continue
		}
		if entry.IsDirectory() {
			if prepared.skipDirectory != nil && prepared.skipDirectory.MatchString(entry.Name) {
				skippedPrefixes = append(skippedPrefixes, entry.Path+"/")
				continue
			}
			filtered = append(filtered, entry)
			continue
		}
		extension := strings.ToLower(filepath.Ext(entry.Name))
		if !prepared.allowsExtension(extension) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, nil
}

func underSkippedPrefix(prefixes []string, entryPath string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(entryPath, prefix) {
			return true
		}
	}
	return false
}

type preparedRuleSet struct {
	includeExtensions map[string]struct{}
	skipDirectory     *regexp.Regexp
	dropExpressions   []*regexp.Regexp
}

func (ruleSet RuleSet) prepare() (preparedRuleSet, error) {
	includeMap := make(map[string]struct{}, len(ruleSet.IncludeExtensions))
	for _, extension := range ruleSet.IncludeExtensions {
		normalized := strings.ToLower(strings.TrimSpace(extension))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		includeMap[normalized] = struct{}{}
	}
	var compiledSkip *regexp.Regexp
	if ruleSet.SkipDirectory != "" {
		compiled, compileErr := regexp.Compile(ruleSet.SkipDirectory)
		if compileErr != nil {
			return preparedRuleSet{}, fmt.Errorf("compile skip_dir_pattern: %w", compileErr)
		}
		compiledSkip = compiled
	}
	var compiledDrops []*regexp.Regexp
	for _, expression := range ruleSet.DropExpressions {
		if strings.TrimSpace(expression) == "" {
			continue
		}
		compiled, compileErr := regexp.Compile(expression)
		if compileErr != nil {
			return preparedRuleSet{}, fmt.Errorf("compile drop_line_regexps entry %q: %w", expression, compileErr)
		}
		compiledDrops = append(compiledDrops, compiled)
	}
	return preparedRuleSet{
		includeExtensions: includeMap,
		skipDirectory:     compiledSkip,
		dropExpressions:   compiledDrops,
	}, nil
}

func (ruleSet preparedRuleSet) allowsExtension(extension string) bool {
	if len(ruleSet.includeExtensions) == 0 {
		return true
	}
	_, ok := ruleSet.includeExtensions[extension]
	return ok
}

// applyTransforms removes lines matched by the drop expressions. Content
// passes through byte for byte when no expressions are configured.
func (ruleSet preparedRuleSet) applyTransforms(content string) string {
	if len(ruleSet.dropExpressions) == 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if ruleSet.shouldDrop(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	return strings.Join(filtered, "\n")
}

func (ruleSet preparedRuleSet) shouldDrop(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, pattern := range ruleSet.dropExpressions {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}
