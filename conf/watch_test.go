package conf_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/types"
)

func TestWatcherIgnoresOwnWritesAndReportsExternalEdits(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.EnsureInitialized())

	notifier := &recordingNotifier{}
	watcher, err := conf.NewWatcher(store, notifier)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { _ = watcher.Stop() })

	_, err = store.ToggleCheckbox(1, 0, 0)
	require.NoError(t, err)

	// longer than the debounce, own write must stay silent
	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, notifier.kinds())

	external := []byte(`{"profiles": [], "profileInUse": "", "opacity": 0.3}`)
	require.NoError(t, os.WriteFile(store.Path(), external, 0o644))

	require.Eventually(t, func() bool {
		kinds := notifier.kinds()
		return len(kinds) == 1 && kinds[0] == types.NotifyTypeConfChanged
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.EnsureInitialized())

	watcher, err := conf.NewWatcher(store, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	require.Error(t, watcher.Start())

	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}
