package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	require.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.WithFields(Fields{"run_id": "abc"}).Info("verifying")
	l.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "verifying", entry["msg"])
	require.Equal(t, "abc", entry["run_id"])
	require.NotContains(t, buf.String(), "hidden")
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	require.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}
