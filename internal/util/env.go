package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// EnvDuration parses a Go duration such as "12h"; unparsable values yield fallback.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(EnvOrDefault(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func EnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(EnvOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func EnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(EnvOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// EnvList splits a comma separated variable, dropping empty entries.
func EnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
