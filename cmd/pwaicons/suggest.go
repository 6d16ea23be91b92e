package main

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// commands lists the names suggested for typos.
var commands = []string{"generate", "list", "history", "watch", "version", "help"}

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 2

// suggestCommand returns the closest known command to name, or "" if
// none is within maxSuggestDistance. Ties go to the earlier command.
func suggestCommand(name string) string {
	name = strings.ToLower(strings.TrimLeft(name, "-"))
	if name == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range commands {
		if strings.HasPrefix(c, name) && len(name) >= 3 {
			return c
		}
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
