package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "")
	assert.Equal(t, "fallback", GetEnv("CFG_TEST_STR", "fallback"))

	t.Setenv("CFG_TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("CFG_TEST_STR", "fallback"))

	assert.Equal(t, "", GetEnv("CFG_TEST_MISSING"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("CFG_TEST_INT", 7))

	t.Setenv("CFG_TEST_INT", "abc")
	assert.Equal(t, 7, GetEnvInt("CFG_TEST_INT", 7))
}

func TestGetEnvBool(t *testing.T) {
	cases := map[string]bool{"1": true, "TRUE": true, "on": true, "0": false, "off": false}
	for in, want := range cases {
		t.Setenv("CFG_TEST_BOOL", in)
		assert.Equal(t, want, GetEnvBool("CFG_TEST_BOOL", !want), in)
	}

	t.Setenv("CFG_TEST_BOOL", "maybe")
	assert.True(t, GetEnvBool("CFG_TEST_BOOL", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CFG_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("CFG_TEST_DUR", time.Minute))

	t.Setenv("CFG_TEST_DUR", "-1s")
	assert.Equal(t, time.Minute, GetEnvDuration("CFG_TEST_DUR", time.Minute))
}

func TestBuildPostgresDSN(t *testing.T) {
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "elearning")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "3000")

	dsn := BuildPostgresDSN()
	assert.Contains(t, dsn, "postgres://u:p@db:6543/elearning?sslmode=disable")
	assert.Contains(t, dsn, "statement_timeout=3000")
}
