package cli

import (
	"fmt"
	"strings"
)

// MatchCommand resolves user input to one of names. Input matches by exact
// name, then through aliases (alias to name), then as a unique name prefix.
// Matching ignores case.
func MatchCommand(input string, names []string, aliases map[string]string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("no action given")
	}

	for _, name := range names {
		if strings.ToLower(name) == input {
			return name, nil
		}
	}
	if name, ok := aliases[input]; ok {
		return name, nil
	}

	var matches []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), input) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown action %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous action %q matches: %s", input, strings.Join(matches, ", "))
	}
}
