package jsonquery

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "client.yaml", `
timeout: 5s
max_in_flight: 3
user_agent: tester/1.0
headers:
  X-Api-Key: secret
rate_limit: 2.5
burst: 4
project_root: /srv/app
allow_comments: true
`)

	config, err := LoadClientConfig(filepath.Join(dir, "client.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, int32(3), config.MaxInFlight)
	assert.Equal(t, "tester/1.0", config.UserAgent)
	assert.Equal(t, map[string]string{"X-Api-Key": "secret"}, config.Headers)
	assert.InDelta(t, 2.5, config.RateLimit, 0)
	assert.Equal(t, 4, config.Burst)
	assert.True(t, config.AllowComments)

	dirs := config.Dirs()
	assert.Equal(t, "/srv/app", dirs.Project)
	assert.Equal(t, filepath.Join("/srv/app", "Content"), dirs.Content)

	loader := config.Loader()
	assert.True(t, loader.AllowComments)
	assert.Equal(t, dirs, loader.Resolver)
}

func TestLoadClientConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "unknown.yaml", "timeout: 1s\nretries: 3\n")
	writeTestFile(t, dir, "negative.yaml", "rate_limit: -1\n")
	writeTestFile(t, dir, "empty.yaml", "")

	_, err := LoadClientConfig(filepath.Join(dir, "unknown.yaml"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = LoadClientConfig(filepath.Join(dir, "negative.yaml"))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = LoadClientConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	config, err := LoadClientConfig(filepath.Join(dir, "empty.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ClientConfig{}, config)
}

func TestClientConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	config := ClientConfig{}.withDefaults()
	assert.Equal(t, DefaultTimeout, config.Timeout)
	assert.Equal(t, DefaultUserAgent, config.UserAgent)
	assert.Equal(t, 1, config.Burst)
	assert.Positive(t, config.MaxInFlight)

	config = ClientConfig{Timeout: -1, MaxInFlight: 7, UserAgent: "x"}.withDefaults()
	assert.Equal(t, time.Duration(0), config.Timeout)
	assert.Equal(t, int32(7), config.MaxInFlight)
	assert.Equal(t, "x", config.UserAgent)
}

func TestClientConfig_Dirs(t *testing.T) {
	t.Parallel()

	dirs := ClientConfig{ContentRoot: "/data/content", ProjectRoot: "/data"}.Dirs()
	assert.Equal(t, Dirs{Content: "/data/content", Project: "/data"}, dirs)

	dirs = ClientConfig{ContentRoot: "/only/content"}.Dirs()
	assert.Equal(t, "/only/content", dirs.Content)
	assert.Equal(t, DefaultDirs().Project, dirs.Project)
}
