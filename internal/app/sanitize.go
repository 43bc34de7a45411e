package app

import "strings"

const maxNameRunes = 16

// sanitizeName strips markup-unsafe characters, trims whitespace, and caps
// the result at 16 runes. An empty result means the name is unusable.
func sanitizeName(raw string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"':
			return -1
		}
		return r
	}, raw)
	clean = strings.TrimSpace(clean)
	runes := []rune(clean)
	if len(runes) > maxNameRunes {
		clean = string(runes[:maxNameRunes])
	}
	return clean
}
