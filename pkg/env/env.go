// Package env reads the few settings needed before config.Load runs, such as
// LOG_FORMAT for the bootstrap logger.
package env

import "os"

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
