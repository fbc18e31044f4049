package config

import (
	"os"
	"strings"
)

const defaultAddr = ":8080"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Addr() string {
	addr, ok := os.LookupEnv("APP_ADDR")
	if !ok || addr == "" {
		return defaultAddr
	}
	return addr
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "0"
}

// CorsOrigins lists the origins allowed by CORS_ORIGINS, comma separated.
// An empty list allows any origin.
func CorsOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
