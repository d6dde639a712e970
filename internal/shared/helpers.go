// Package shared provides common utility functions used across multiple
// packages in the lsudt codebase.
package shared

import "strings"

// EnvToken uppercases an identifier and replaces hyphens and spaces with
// underscores, producing the leading token of generated environment
// variable names.
func EnvToken(identifier string) string {
	upper := strings.ToUpper(identifier)
	replacer := strings.NewReplacer("-", "_", " ", "_")
	return replacer.Replace(upper)
}
