package normalization

import "strings"

// ParseInputString lowercases and trims free-form identity input (emails,
// lookup keys). Display fields should use TrimInputString instead.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
