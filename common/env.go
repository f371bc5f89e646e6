package common

import "os"

// GetenvOrDefault returns the environment variable named by key, or fallback
// if it is unset or empty.
func GetenvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
