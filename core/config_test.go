package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("test env defaults", func(t *testing.T) {
		t.Setenv("ENV", "test")

		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, BackendFixture, conf.Backend)
		assert.Equal(t, time.Duration(0), conf.Fixture.Latency)
		assert.Equal(t, "localhost:5432", conf.Database.Address())
	})

	t.Run("prefixed env vars", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_BACKEND", "Remote")
		t.Setenv("TEST_REMOTE_BASEURL", "https://records.test/")
		t.Setenv("TEST_REMOTE_TIMEOUT", "3s")

		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, BackendRemote, conf.Backend)
		assert.Equal(t, "https://records.test", conf.Remote.BaseURL)
		assert.Equal(t, 3*time.Second, conf.Remote.Timeout)
	})

	t.Run("remote needs a base url", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_BACKEND", "remote")

		_, err := NewConfig()
		assert.EqualError(t, err, "config: remote.baseURL is required by the remote backend")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_BACKEND", "mongo")

		_, err := NewConfig()
		assert.EqualError(t, err, `config: unknown backend "mongo"`)
	})
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Emma", CleanString("  Emma \n"))
	assert.Equal(t, "emma@school.test", CleanString(" Emma@School.TEST ", true))
}
