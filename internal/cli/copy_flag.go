package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "copy"
	copyFlagTrueLiteral         = "true"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

var (
	copyFlagLiterals = map[string]bool{
		"":      true,
		"true":  true,
		"t":     true,
		"1":     true,
		"yes":   true,
		"y":     true,
		"false": false,
		"f":     false,
		"0":     false,
		"no":    false,
		"n":     false,
	}
	copyFlagCommandNames = map[string]struct{}{
		"tree":      {},
		"ingest":    {},
		"readme":    {},
		treeAlias:   {},
		ingestAlias: {},
		readmeAlias: {},
	}
)

func isCopyFlagCommand(argument string) bool {
	_, known := copyFlagCommandNames[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

func interpretCopyFlagLiteral(input string) (bool, bool) {
	literal, known := copyFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return literal, known
}

// copyFlagValue accepts lenient boolean literals so both "--copy" and
// "--copy yes" toggle clipboard copying.
type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	booleanValue, known := interpretCopyFlagLiteral(input)
	if !known {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = booleanValue
	return nil
}

func (value *copyFlagValue) String() string {
	if value == nil || value.target == nil {
		return "false"
	}
	if *value.target {
		return copyFlagTrueLiteral
	}
	return "false"
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	if lookup := flagSet.Lookup(copyFlagName); lookup != nil {
		lookup.NoOptDefVal = copyFlagTrueLiteral
	}
}

// normalizeCopyFlagArguments rewrites "--copy value" pairs into "--copy=value"
// so the optional flag value never swallows a following positional argument
// or subcommand name.
func normalizeCopyFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	commandSeen := false
	for index < len(arguments) {
		current := arguments[index]
		if current == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if current == "--"+copyFlagName {
			nextIndex := index + 1
			if nextIndex >= len(arguments) || strings.HasPrefix(arguments[nextIndex], "-") {
				normalized = append(normalized, fmt.Sprintf("--%s=%s", copyFlagName, copyFlagTrueLiteral))
				index++
				continue
			}
			nextValue := arguments[nextIndex]
			if booleanValue, known := interpretCopyFlagLiteral(nextValue); known {
				normalized = append(normalized, fmt.Sprintf("--%s=%t", copyFlagName, booleanValue))
				index += 2
				continue
			}
			if commandSeen || isCopyFlagCommand(nextValue) {
				normalized = append(normalized, current)
				index++
				continue
			}
			normalized = append(normalized, fmt.Sprintf("--%s=%s", copyFlagName, nextValue))
			index += 2
			continue
		}
		normalized = append(normalized, current)
		if !commandSeen && !strings.HasPrefix(current, "-") && isCopyFlagCommand(current) {
			commandSeen = true
		}
		index++
	}
	return normalized
}
