package logging

import (
	"log/slog"
	"net/url"
	"strings"
)

// SecretKeyPatterns are substrings of attribute, env and header names whose
// values are masked. Matching is case-insensitive.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes are value prefixes of well-known API tokens. Values starting
// with one are masked whatever their key.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"pk-",   // Public keys that shouldn't be exposed
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
	"xoxa-", // Slack app token
	"xoxr-", // Slack refresh token
}

// ShouldMask reports whether key names a sensitive value.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a sensitive string. Values of 4 or fewer characters become
// "********"; longer values keep their last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// Redact returns value masked when key or value looks sensitive, and value
// unchanged otherwise.
func Redact(key, value string) string {
	if ShouldMask(key) || ContainsTokenPrefix(value) {
		return MaskValue(value)
	}
	return value
}

// MaskURL masks the password of a URL with embedded credentials. Unparseable
// URLs are returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// MaskSecrets returns a copy of m with sensitive values masked.
func MaskSecrets(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	masked := make(map[string]string, len(m))
	for k, v := range m {
		masked[k] = Redact(k, v)
	}
	return masked
}

// redactAttr is a slog ReplaceAttr function masking sensitive attributes.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	if ShouldMask(a.Key) {
		return slog.String(a.Key, MaskValue(a.Value.String()))
	}
	if a.Value.Kind() == slog.KindString && ContainsTokenPrefix(a.Value.String()) {
		return slog.String(a.Key, MaskValue(a.Value.String()))
	}
	return a
}
