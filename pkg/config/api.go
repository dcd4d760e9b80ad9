package config

import (
	"fmt"
	"slices"
	"strings"
)

// APIConfig configures header based API versioning.
type APIConfig struct {
	DefaultVersion    string   `koanf:"defaultVersion"`
	SupportedVersions []string `koanf:"supportedVersions"`
}

const defaultAPIVersion = "1.0"

// String returns a string representation of the API configuration.
func (c *APIConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- API ---\n")
	b.WriteString(fmt.Sprintf("  api.defaultVersion: %s\n", c.DefaultVersion))
	b.WriteString(fmt.Sprintf("  api.supportedVersions: %s\n", strings.Join(c.SupportedVersions, ", ")))
	return b.String()
}

func (c *APIConfig) Validate() error {
	if c.DefaultVersion == "" {
		c.DefaultVersion = defaultAPIVersion
	}
	if len(c.SupportedVersions) == 0 {
		c.SupportedVersions = []string{c.DefaultVersion}
	}
	if !slices.Contains(c.SupportedVersions, c.DefaultVersion) {
		return fmt.Errorf("default API version %s is not in the supported versions %v", c.DefaultVersion, c.SupportedVersions)
	}
	return nil
}
