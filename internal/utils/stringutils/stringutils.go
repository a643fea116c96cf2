package stringutils

import (
	"regexp"
	"strings"
)

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// ToKebabCase converts a string from CamelCase or PascalCase to kebab-case.
// Example: "MaxTokens" -> "max-tokens", "FailOnError" -> "fail-on-error"
func ToKebabCase(str string) string {
	if str == "" {
		return ""
	}
	snake := matchFirstCap.ReplaceAllString(str, "${1}-${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}-${2}")
	return strings.ToLower(snake)
}

// ToScreamingSnakeCase converts CamelCase or kebab-case to SCREAMING_SNAKE_CASE,
// the usual shape of environment variable names.
// Example: "MaxTokens" -> "MAX_TOKENS", "max-digits" -> "MAX_DIGITS"
func ToScreamingSnakeCase(str string) string {
	return strings.ToUpper(strings.ReplaceAll(ToKebabCase(str), "-", "_"))
}
