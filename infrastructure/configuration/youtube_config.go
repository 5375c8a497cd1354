package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func initYouTube(C *Config) {
	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/youtube/callback", scheme, C.App.Port)

	C.YouTube.APIKey = getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	C.YouTube.ClientSecretFile = getConfigValue(C.YouTube.ClientSecretFile, "YOUTUBE_CLIENT_SECRET_FILE", "")
	C.YouTube.TokenFile = getConfigValue(C.YouTube.TokenFile, "YOUTUBE_TOKEN_FILE", "token.json")
	C.YouTube.RedirectURI = getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", defaultRedirect)
	if C.App.TLSEnabled && strings.HasPrefix(C.YouTube.RedirectURI, "http://") {
		C.YouTube.RedirectURI = "https://" + strings.TrimPrefix(C.YouTube.RedirectURI, "http://")
	}
	if v := os.Getenv("YOUTUBE_PAGE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			C.YouTube.PageSize = n
		}
	}
}

// OAuthEnabled reports whether requests are authorized with a user token rather than an API key.
func (y YouTube) OAuthEnabled() bool {
	return y.ClientSecretFile != ""
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Otherwise use config value if set and not a placeholder
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
