package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	Setup("debug", "", 10, 1, 1)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	Setup("warn", "", 10, 1, 1)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	// Unknown levels fall back to info instead of failing startup.
	Setup("chatty", "", 10, 1, 1)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
