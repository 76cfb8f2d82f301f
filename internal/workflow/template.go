package workflow

import "strings"

// ApplyTemplate substitutes message into the first pass-through argument that
// contains placeholder. That argument becomes the final message and is removed
// from the returned commit args. args is never modified.
func ApplyTemplate(message string, args []string, placeholder string) (string, []string) {
	rest := make([]string, 0, len(args))
	final := message
	found := false

	for _, arg := range args {
		if !found && placeholder != "" && strings.Contains(arg, placeholder) {
			final = strings.ReplaceAll(arg, placeholder, message)
			found = true
			continue
		}
		rest = append(rest, arg)
	}
	return final, rest
}
