package env

import "os"

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// IsSet reports whether key is present with a non-empty value.
func IsSet(key string) bool {
	return os.Getenv(key) != ""
}
