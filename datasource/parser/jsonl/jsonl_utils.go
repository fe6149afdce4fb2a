package jsonl

import "strings"

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

// escapePath turns an object key into a gjson path matching only that key
func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
