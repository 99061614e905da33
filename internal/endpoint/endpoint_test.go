package endpoint

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPort int

func (p fixedPort) Port() int { return int(p) }

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		src     PortSource
		want    string
		wantErr error
	}{
		{name: "bound port", src: fixedPort(63342), want: "http://localhost:63342/api/ide-browser"},
		{name: "ephemeral port", src: fixedPort(51001), want: "http://localhost:51001/api/ide-browser"},
		{name: "not bound", src: fixedPort(0), wantErr: ErrNotListening},
		{name: "no server", src: nil, wantErr: ErrNotListening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseURL(tt.src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnviron(t *testing.T) {
	env := []string{"PATH=/bin", EnvVar + "=http://stale", "HOME=/root"}

	got, err := Environ(env, fixedPort(8080))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PATH=/bin",
		"HOME=/root",
		EnvVar + "=http://localhost:8080/api/ide-browser",
	}, got)
	assert.Len(t, env, 3, "input is not modified")

	_, err = Environ(env, fixedPort(0))
	assert.ErrorIs(t, err, ErrNotListening)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrNotSet)

	t.Setenv(EnvVar, " http://localhost:1234/api/ide-browser ")
	got, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234/api/ide-browser", got)
}

func TestOpenURL(t *testing.T) {
	got := OpenURL("http://localhost:1/api/ide-browser/", "https://example.com/a b?x=1&y=2")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/api/ide-browser/open", u.Path)
	assert.Equal(t, "https://example.com/a b?x=1&y=2", u.Query().Get("url"))
}
