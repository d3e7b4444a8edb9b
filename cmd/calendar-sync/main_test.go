package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomroth04/calendarAPI/settings"
)

func TestCheckSettingsFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("theme: dark\neventsPerPage: 500\n"), 0o600))
	s, err := checkSettingsFile(valid)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, s.Theme)
	// out of range values are normalised to the default
	assert.Equal(t, 20, s.EventsPerPage)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("theme: [dark\n"), 0o600))
	_, err = checkSettingsFile(broken)
	assert.Error(t, err)

	_, err = checkSettingsFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
