package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "info", "production", "portal")

	Component(logger, "otp").Info("issued")

	out := buf.String()
	assert.Contains(t, out, `"msg":"issued"`)
	assert.Contains(t, out, `"app":"portal"`)
	assert.Contains(t, out, `"component":"otp"`)
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "chatty", "development", "")

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
