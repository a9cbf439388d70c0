// Package env reads process environment values in the narrow window before
// config parsing is available.
package env

import "os"

// Get reads key from the environment, returning fallback when unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
