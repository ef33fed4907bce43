package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/domain"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sportalk", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "seed", "useradd"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("addr"))
	seedFlag := serve.Flags().Lookup("seed")
	require.NotNil(t, seedFlag)
	assert.Equal(t, "false", seedFlag.DefValue)
}

// writeConfig points the CLI at a throwaway SQLite file.
func writeConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_DRIVER", "")
	dir := t.TempDir()
	dsn := "file:" + filepath.ToSlash(filepath.Join(dir, "sportalk.db")) + "?_foreign_keys=1"
	body := "database:\n  driver: sqlite\n  dsn: " + dsn + "\n  log_level: silent\nlog:\n  level: error\n"
	path := filepath.Join(dir, "sportalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUserAdd(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date.")

	out, err = execute(t, "--config", cfgPath, "useradd",
		"--nickname", "striker", "--email", "striker@sportalk.test", "--password", "goal-goal-goal", "--role", "INFLUENCER")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 3)
	assert.Equal(t, "striker", fields[1])
	assert.Equal(t, "INFLUENCER", fields[2])

	_, err = execute(t, "--config", cfgPath, "useradd",
		"--nickname", "striker", "--email", "other@sportalk.test", "--password", "goal-goal-goal")
	require.Error(t, err)
	assert.Equal(t, domain.CodeConflict, domain.ErrCode(err))

	_, err = execute(t, "--config", cfgPath, "useradd", "--nickname", "keeper")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestSeed(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "--config", cfgPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Demo data created.")

	// демо-пользователи уже заняты
	_, err = execute(t, "--config", cfgPath, "useradd",
		"--nickname", "fan", "--email", "fan2@sportalk.test", "--password", "fan-password")
	assert.Equal(t, domain.CodeConflict, domain.ErrCode(err))
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.Log{Level: "warn", Format: "json"}, false, &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	log, err = newLogger(config.Log{Level: "warn", Format: "text"}, true, &buf)
	require.NoError(t, err)
	log.Debug("debug on")
	assert.Contains(t, buf.String(), "debug on")

	_, err = newLogger(config.Log{Level: "loud", Format: "text"}, false, &buf)
	assert.Error(t, err)
}
