package main

import (
	"os"
	"strconv"
	"strings"
)

// getEnvOrDefault returns the value of key, or def when it is unset or empty.
func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// getEnvBool reads key as a boolean. Besides strconv.ParseBool forms it
// accepts yes/no and on/off. Unparseable values yield def.
func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
