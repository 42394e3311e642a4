package xconf_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xactor/pkg/config/xconf"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stageConf struct {
	Name        string        `koanf:"name"`
	CallTimeout time.Duration `koanf:"call_timeout"`
	MailboxSize int           `koanf:"mailbox_size"`
}

const yamlDoc = `
stage:
  name: hello-cluster
  call_timeout: 4s
log:
  level: info
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestNewYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yaml", yamlDoc)
	cfg, err := xconf.New(path)
	require.NoError(t, err)
	assert.Equal(t, xconf.FormatYAML, cfg.Format())
	assert.Equal(t, path, cfg.Path())

	got := stageConf{MailboxSize: 64}
	require.NoError(t, cfg.Unmarshal("stage", &got))
	assert.Equal(t, "hello-cluster", got.Name)
	assert.Equal(t, 4*time.Second, got.CallTimeout)
	assert.Equal(t, 64, got.MailboxSize)
	assert.Equal(t, "info", cfg.Client().String("log.level"))
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := xconf.New("")
	assert.ErrorIs(t, err, xconf.ErrEmptyPath)

	_, err = xconf.New(filepath.Join(dir, "app.toml"))
	assert.ErrorIs(t, err, xconf.ErrUnsupportedFormat)

	_, err = xconf.New(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, xconf.ErrLoadFailed)

	bad := writeFile(t, dir, "bad.json", "{not json")
	_, err = xconf.New(bad)
	assert.ErrorIs(t, err, xconf.ErrParseFailed)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte(`{"stage":{"name":"a","mailbox_size":8}}`), xconf.FormatJSON)
	require.NoError(t, err)

	var got stageConf
	require.NoError(t, cfg.Unmarshal("stage", &got))
	assert.Equal(t, stageConf{Name: "a", MailboxSize: 8}, got)
	assert.ErrorIs(t, cfg.Reload(), xconf.ErrNotReloadable)

	empty, err := xconf.NewFromBytes(nil, xconf.FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, empty.Client().Keys())

	_, err = xconf.NewFromBytes(nil, "toml")
	assert.ErrorIs(t, err, xconf.ErrUnsupportedFormat)

	_, err = xconf.NewWatcher(cfg, func(xconf.Config, error) {})
	assert.ErrorIs(t, err, xconf.ErrNotReloadable)
}

func TestCustomDelim(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte("a:\n  b: 1\n"), xconf.FormatYAML, xconf.WithDelim("/"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Client().Int("a/b"))
}

func TestReloadKeepsOldOnError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yaml", yamlDoc)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), xconf.ErrParseFailed)
	assert.Equal(t, "info", cfg.Client().String("log.level"))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, "debug", cfg.Client().String("log.level"))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yaml", yamlDoc)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		levels []string
	)
	w, err := xconf.NewWatcher(cfg, func(c xconf.Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		levels = append(levels, c.Client().String("log.level"))
		mu.Unlock()
	}, xconf.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "warn"
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.NoError(t, w.Close())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", yamlDoc)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	calls := make(chan struct{}, 4)
	w, err := xconf.NewWatcher(cfg, func(xconf.Config, error) { calls <- struct{}{} },
		xconf.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, dir, "other.yaml", "x: 1")
	select {
	case <-calls:
		t.Fatal("unexpected reload")
	case <-time.After(150 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcherValidation(t *testing.T) {
	_, err := xconf.NewWatcher(nil, func(xconf.Config, error) {})
	assert.ErrorIs(t, err, xconf.ErrNilConfig)

	path := writeFile(t, t.TempDir(), "app.yaml", yamlDoc)
	cfg, err := xconf.New(path)
	require.NoError(t, err)
	_, err = xconf.NewWatcher(cfg, nil)
	assert.ErrorIs(t, err, xconf.ErrNilCallback)
}
