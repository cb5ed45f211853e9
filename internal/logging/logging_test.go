package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, "debug", "JSON", &buf)

	l.WithField("component", "world").Debug("bots spawned")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "bots spawned", line["msg"])
	assert.Equal(t, "world", line["component"])
	assert.Equal(t, "debug", line["level"])
}

func TestConfigure_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, "chatty", "", &buf)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Info("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestFor_TagsComponent(t *testing.T) {
	e := For("observer")
	assert.Equal(t, "observer", e.Data["component"])
}
