package hub

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables accepted for hub connection settings. The long
// names are preferred; the short ones are kept as compatible aliases.
const (
	EnvBaseURL      = "HOME_ASSISTANT_BASE_URL"
	EnvBaseURLAlt   = "HA_BASE_URL"
	EnvToken        = "HOME_ASSISTANT_TOKEN"
	EnvTokenAlt     = "HA_TOKEN"
	EnvVerifySSL    = "HOME_ASSISTANT_VERIFY_SSL"
	EnvVerifySSLAlt = "HA_VERIFY_SSL"
)

// Config holds one resolved set of hub connection settings. It is rebuilt
// from the environment on every tool call and never cached, so token or URL
// changes take effect on the next call.
type Config struct {
	// BaseURL is scheme://host[:port] with no trailing slash.
	BaseURL string
	// Token is the long-lived access token presented as a bearer credential.
	Token string
	// VerifySSL controls certificate checks on the WebSocket transport.
	VerifySSL bool
}

// Load reads hub connection settings from the process environment. Both the
// base URL and the token must be present and non-blank.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	lookup := func(name, alt string) string {
		v := strings.TrimSpace(getenv(name))
		if v == "" {
			v = strings.TrimSpace(getenv(alt))
		}
		return v
	}

	cfg := Config{
		BaseURL:   strings.TrimRight(lookup(EnvBaseURL, EnvBaseURLAlt), "/"),
		Token:     lookup(EnvToken, EnvTokenAlt),
		VerifySSL: ParseBool(lookup(EnvVerifySSL, EnvVerifySSLAlt), true),
	}
	if cfg.BaseURL == "" || cfg.Token == "" {
		return Config{}, fmt.Errorf("%w: missing hub credentials, set %s and %s", ErrConfig, EnvBaseURL, EnvToken)
	}
	return cfg, nil
}

// WebSocketURL derives the hub's WebSocket endpoint from the REST base URL:
// http(s)://host[:port] becomes ws(s)://host[:port]/api/websocket.
func (c Config) WebSocketURL() string {
	host := c.BaseURL
	scheme := "ws"
	if strings.HasPrefix(host, "https://") {
		scheme = "wss"
	}
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+len("://"):]
	}
	return scheme + "://" + strings.TrimRight(host, "/") + "/api/websocket"
}

// ParseBool interprets common truthy/falsy tokens. Unrecognized input falls
// back to def rather than failing.
func ParseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
