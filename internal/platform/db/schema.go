package db

import "regexp"

var schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidSchema reports whether name is safe to splice into search_path.
func ValidSchema(name string) bool {
	return schemaPattern.MatchString(name)
}
