package sqsgath

import "strings"

// trimStrToRect bounds a string to maxHeight lines of maxWidth
// characters, marking elisions with [...].
func trimStrToRect(s string, maxHeight int, maxWidth int) string {
	res := ""
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	for i, line := range lines {
		if i > 0 {
			res += "\n"
		}
		if len(line) > maxWidth {
			res += line[:maxWidth] + "[...]"
		} else {
			res += line
		}
	}
	return res
}
