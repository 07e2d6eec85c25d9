package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGetEnvDefaults(t *testing.T) {
	require.Equal(t, "fallback", GetEnv("ILM_TEST_UNSET", "fallback"))
	t.Setenv("ILM_TEST_SET", "value")
	require.Equal(t, "value", GetEnv("ILM_TEST_SET", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("ILM_TEST_INT", "42")
	require.Equal(t, 42, GetEnvInt("ILM_TEST_INT", 7))
	t.Setenv("ILM_TEST_INT", "not-a-number")
	require.Equal(t, 7, GetEnvInt("ILM_TEST_INT", 7))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("ILM_TEST_BOOL", "true")
	require.True(t, GetEnvBool("ILM_TEST_BOOL", false))
	require.False(t, GetEnvBool("ILM_TEST_BOOL_UNSET", false))
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	require.Equal(t, logrus.DebugLevel, GetLogLevel())
	t.Setenv("LOG_LEVEL", "")
	require.Equal(t, logrus.InfoLevel, GetLogLevel())
}
