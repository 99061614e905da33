// Package endpoint publishes the location of the ide-browser control endpoint
// to child processes and reads it back on the client side.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	ServiceName = "ide-browser"
	Prefix      = "/api/" + ServiceName
	EnvVar      = "IDE_BROWSER_ENDPOINT"
	OpenPath    = "/open"
)

var (
	ErrNotListening = errors.New("endpoint: server is not listening")
	ErrNotSet       = errors.New("endpoint: " + EnvVar + " is not set")
)

// PortSource reports the port the shared server is bound to, 0 before binding
type PortSource interface {
	Port() int
}

// BaseURL returns http://localhost:<port>/api/ide-browser for the current port.
// It is recomputed on every call so a restarted server is picked up.
func BaseURL(src PortSource) (string, error) {
	if src == nil {
		return "", ErrNotListening
	}
	port := src.Port()
	if port <= 0 {
		return "", ErrNotListening
	}
	return fmt.Sprintf("http://localhost:%d%s", port, Prefix), nil
}

// Environ returns env with EnvVar set to the current base URL. An existing
// EnvVar entry is replaced. env itself is not modified.
func Environ(env []string, src PortSource) ([]string, error) {
	base, err := BaseURL(src)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if !strings.HasPrefix(kv, EnvVar+"=") {
			out = append(out, kv)
		}
	}
	return append(out, EnvVar+"="+base), nil
}

// FromEnv reads the base URL published by the host
func FromEnv() (string, error) {
	base := strings.TrimSpace(os.Getenv(EnvVar))
	if base == "" {
		return "", ErrNotSet
	}
	return base, nil
}

// OpenURL builds <base>/open?url=<escaped target>
func OpenURL(base, target string) string {
	return strings.TrimRight(base, "/") + OpenPath + "?url=" + url.QueryEscape(target)
}
