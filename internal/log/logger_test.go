package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewSugar(t *testing.T) {
	for _, env := range []string{"prod", "dev", ""} {
		t.Run("env "+env, func(t *testing.T) {
			logger, err := NewSugar(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	prod, err := NewLogger("prod")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel), "prod logger must not emit debug")

	dev, err := NewLogger("dev")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}
