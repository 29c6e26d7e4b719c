// Package env reads bootstrap settings that are needed before config.Load runs.
package env

import (
	"os"
	"strings"
)

// Prefix is the namespace every HAULMARKET_* config tag uses.
const Prefix = "HAULMARKET_"

// Get returns HAULMARKET_<key>, then the bare key, then fallback. Blank values
// count as unset.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
