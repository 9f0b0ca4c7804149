package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	_apiKeyEnv = "T212_API_KEY"
)

// LoadAPIKey reads the Trading 212 API key from the environment. The key is
// never stored in the yaml file.
func LoadAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(_apiKeyEnv))
	if key == "" {
		return "", fmt.Errorf("empty %s", _apiKeyEnv)
	}
	return key, nil
}
