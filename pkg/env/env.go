package env

import "os"

// Prefix is the namespace shared with the envconfig structs in pkg/config.
const Prefix = "BAXOQ_"

// Get returns the value of the given environment variable, or fallback when
// it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// GetPrefixed reads Prefix+key. Bootstrap code that runs before envconfig
// loads uses this to stay inside the same namespace.
func GetPrefixed(key, fallback string) string {
	return Get(Prefix+key, fallback)
}
