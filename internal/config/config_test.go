package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// unsetForTest clears key for the duration of the test and restores it after.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantHost string
		wantPort int
		wantKey  string
		wantErr  bool
	}{
		{
			name:     "defaults when nothing set",
			env:      map[string]string{},
			wantHost: DefaultHost,
			wantPort: DefaultPort,
		},
		{
			name:     "explicit host and port",
			env:      map[string]string{"HOST": "127.0.0.1", "PORT": "8443"},
			wantHost: "127.0.0.1",
			wantPort: 8443,
		},
		{
			name:     "empty values fall back to defaults",
			env:      map[string]string{"HOST": "", "PORT": ""},
			wantHost: DefaultHost,
			wantPort: DefaultPort,
		},
		{
			name:     "alias secret used when API_KEY unset",
			env:      map[string]string{"TMDB_KEY": "abc"},
			wantHost: DefaultHost,
			wantPort: DefaultPort,
			wantKey:  "abc",
		},
		{
			name:     "API_KEY wins over alias",
			env:      map[string]string{"API_KEY": "primary", "TMDB_KEY": "alias"},
			wantHost: DefaultHost,
			wantPort: DefaultPort,
			wantKey:  "primary",
		},
		{
			name:    "non-numeric port",
			env:     map[string]string{"PORT": "notanumber"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			env:     map[string]string{"PORT": "70000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(mapLookup(tt.env))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, cfg.Host)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
		})
	}
}

func TestResolve_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	unsetForTest(t, "HOST")

	cfg, err := Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, DefaultHost, cfg.Host)
}

func TestReport(t *testing.T) {
	cfg, err := Resolve(mapLookup(map[string]string{
		"API_KEY": "s3cret",
		"PORT":    "8080",
		"ENV":     "production",
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        &buf,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	})
	cfg.Report(log)

	out := buf.String()
	assert.Contains(t, out, "API_KEY = *****")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "PORT = 8080")
	assert.Contains(t, out, "HOST not set in environment")
	assert.Contains(t, out, "DEBUG not set in environment")
	assert.Contains(t, out, "ENV = production")
}

func TestDebugEnabled(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		assert.True(t, (&Config{Debug: v}).DebugEnabled(), v)
	}
	for _, v := range []string{"", "0", "false", "off", "nope"} {
		assert.False(t, (&Config{Debug: v}).DebugEnabled(), v)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	res, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	t.Setenv("LAUNCHER_TEST_HOST", "from-os")
	unsetForTest(t, "LAUNCHER_TEST_PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LAUNCHER_TEST_HOST=from-file\nLAUNCHER_TEST_PORT=8443\n"), 0o644))

	res, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"LAUNCHER_TEST_PORT"}, res.Applied)
	assert.Equal(t, "from-os", os.Getenv("LAUNCHER_TEST_HOST"))
	assert.Equal(t, "8443", os.Getenv("LAUNCHER_TEST_PORT"))
}

func TestLoadEnvFile_SkipsMalformedLines(t *testing.T) {
	unsetForTest(t, "LAUNCHER_TEST_GOOD")
	unsetForTest(t, "LAUNCHER_TEST_LATER")

	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nLAUNCHER_TEST_GOOD=yes\nNOT VALID!=x\nLAUNCHER_TEST_LATER=also\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "yes", os.Getenv("LAUNCHER_TEST_GOOD"))
	assert.Equal(t, "also", os.Getenv("LAUNCHER_TEST_LATER"))
}

func TestLoadEnvFile_SkipsLinesWithoutKey(t *testing.T) {
	unsetForTest(t, "LAUNCHER_TEST_PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LAUNCHER_TEST_PORT=8443\nGARBAGE\n=oops\n"), 0o644))

	res, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []string{"LAUNCHER_TEST_PORT"}, res.Applied)
	assert.Equal(t, "8443", os.Getenv("LAUNCHER_TEST_PORT"))
}

func TestLoadEnvFile_KeepsMultilineValueNextToBadLine(t *testing.T) {
	for _, key := range []string{"LAUNCHER_TEST_A", "LAUNCHER_TEST_B", "LAUNCHER_TEST_D", "LAUNCHER_TEST_E"} {
		unsetForTest(t, key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "LAUNCHER_TEST_A=1\n" +
		"LAUNCHER_TEST_B=\"l1\nl2\"\n" +
		"NOT VALID!=x\n" +
		"LAUNCHER_TEST_D=ok\n" +
		"LAUNCHER_TEST_E=${LAUNCHER_TEST_A}-x\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "1", os.Getenv("LAUNCHER_TEST_A"))
	assert.Equal(t, "l1\nl2", os.Getenv("LAUNCHER_TEST_B"))
	assert.Equal(t, "ok", os.Getenv("LAUNCHER_TEST_D"))
	assert.Equal(t, "1-x", os.Getenv("LAUNCHER_TEST_E"))
}

func TestSplitEntries(t *testing.T) {
	got := splitEntries("A=1\nB=\"x\ny\"\n# c\nC='open\nD=2")
	assert.Equal(t, []string{"A=1", "B=\"x\ny\"", "# c", "C='open\nD=2"}, got)
}
