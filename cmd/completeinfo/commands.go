package main

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggest returns the known command closest to name, or "" when none is
// within two edits.
func suggest(name string) string {
	best, bestDist := "", 3
	for _, candidate := range commandNames() {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func unknownCommand(name string) string {
	if s := suggest(name); s != "" {
		return fmt.Sprintf("unknown command %q, did you mean %q?", name, s)
	}
	return fmt.Sprintf("unknown command %q", name)
}
