// Package textutil formats help text.
package textutil

import "strings"

// Wrap splits text into lines no longer than width, breaking on whitespace. Runs of whitespace
// collapse to a single space. A word longer than width is placed on its own line unbroken.
func Wrap(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
