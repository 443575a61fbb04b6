package cmd

import (
	"testing"
	"time"
)

func TestPartClientConfigUsesAllFlags(t *testing.T) {
	origTimeout, origKA := timeout, kaTimeout
	origUA, origProxy := userAgent, proxyURL
	origUser, origPass, origHeaders := proxyUsername, proxyPassword, headers
	t.Cleanup(func() {
		timeout, kaTimeout = origTimeout, origKA
		userAgent, proxyURL = origUA, origProxy
		proxyUsername, proxyPassword, headers = origUser, origPass, origHeaders
	})

	timeout = 45 * time.Second
	kaTimeout = 15 * time.Second
	userAgent = "agent/2.0"
	proxyURL = "http://proxy.local:3128"
	proxyUsername = "user"
	proxyPassword = "pass"
	headers = []string{"Authorization: Bearer token", "X-Trace: abc"}

	cfg := partClientConfig()
	if cfg.Timeout != 45*time.Second || cfg.KATimeout != 15*time.Second {
		t.Errorf("timeouts not carried: %v / %v", cfg.Timeout, cfg.KATimeout)
	}
	if cfg.UserAgent != "agent/2.0" {
		t.Errorf("user agent not carried: %q", cfg.UserAgent)
	}
	if cfg.ProxyURL != "http://proxy.local:3128" || cfg.ProxyUsername != "user" || cfg.ProxyPassword != "pass" {
		t.Errorf("proxy settings not carried: %q %q %q", cfg.ProxyURL, cfg.ProxyUsername, cfg.ProxyPassword)
	}
	if cfg.Headers["Authorization"] != "Bearer token" || cfg.Headers["X-Trace"] != "abc" {
		t.Errorf("headers not carried: %v", cfg.Headers)
	}
}
