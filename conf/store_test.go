package conf_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/types"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*types.Notification
}

func (r *recordingNotifier) Broadcast(n *types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Type)
	}
	return out
}

func newStore(t *testing.T, opts ...conf.Option) *conf.Store {
	t.Helper()
	return conf.New(filepath.Join(t.TempDir(), "conf.json"), opts...)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	store := newStore(t)

	doc, err := store.Load()
	require.NoError(t, err)

	require.Len(t, doc.Profiles, 1)
	assert.Equal(t, doc.Profiles[0].ID, doc.ProfileInUse)
	assert.Equal(t, types.DefaultProfileName, doc.Profiles[0].Name)
	assert.Equal(t, types.DefaultLevel, doc.Profiles[0].Level)
	assert.Equal(t, 0.98, doc.Opacity)
	assert.Equal(t, types.LangFr, doc.Lang)
	assert.Equal(t, types.DefaultShortcuts(), doc.Shortcuts)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "ganymede")
	store := conf.New(filepath.Join(dir, "conf.json"))

	require.NoError(t, store.EnsureInitialized())
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	require.NoError(t, store.EnsureInitialized())
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSaveClampsOpacity(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above max", 1.5, 0.98},
		{"below min", -1.0, 0.0},
		{"in range", 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			doc := types.DefaultConf()
			doc.Opacity = tt.in

			require.NoError(t, store.Save(doc))

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, loaded.Opacity)
		})
	}
}

func TestToggleCheckboxTwiceRestoresState(t *testing.T) {
	store := newStore(t, conf.WithStampLocalEdits(false))
	require.NoError(t, store.EnsureInitialized())

	got, err := store.ToggleCheckbox(42, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got)

	doc, err := store.Load()
	require.NoError(t, err)
	profile, err := conf.ProfileInUse(doc)
	require.NoError(t, err)
	progress := conf.FindProgress(profile, 42)
	require.NotNil(t, progress)
	assert.Equal(t, []uint32{1}, progress.Steps[3].Checkboxes)

	_, err = store.ToggleCheckbox(42, 3, 1)
	require.NoError(t, err)

	doc, err = store.Load()
	require.NoError(t, err)
	profile, err = conf.ProfileInUse(doc)
	require.NoError(t, err)
	progress = conf.FindProgress(profile, 42)
	require.NotNil(t, progress)
	assert.Empty(t, progress.Steps[3].Checkboxes)
	assert.Nil(t, progress.UpdatedAt)
}

func TestToggleCheckboxCreatesProgressLazily(t *testing.T) {
	store := newStore(t, conf.WithStampLocalEdits(false))
	require.NoError(t, store.EnsureInitialized())

	_, err := store.ToggleCheckbox(7, 2, 0)
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	profile, err := conf.ProfileInUse(doc)
	require.NoError(t, err)
	require.Len(t, profile.Progresses, 1)

	progress := profile.Progresses[0]
	assert.Equal(t, uint32(7), progress.ID)
	assert.Equal(t, uint32(0), progress.CurrentStep)
	assert.Equal(t, map[uint32]types.ConfStep{2: {Checkboxes: []uint32{0}}}, progress.Steps)
}

func TestToggleCheckboxStampsLocalEdits(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := newStore(t, conf.WithClock(func() time.Time { return fixed }))
	require.NoError(t, store.EnsureInitialized())

	_, err := store.ToggleCheckbox(1, 0, 0)
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	profile, err := conf.ProfileInUse(doc)
	require.NoError(t, err)
	progress := conf.FindProgress(profile, 1)
	require.NotNil(t, progress)
	require.NotNil(t, progress.UpdatedAt)
	assert.Equal(t, "2024-03-01T10:00:00Z", *progress.UpdatedAt)
}

func TestToggleCheckboxDanglingProfileDoesNotWrite(t *testing.T) {
	store := newStore(t)
	doc := types.DefaultConf()
	doc.ProfileInUse = "missing"
	require.NoError(t, store.Save(doc))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	_, err = store.ToggleCheckbox(1, 0, 0)
	require.ErrorIs(t, err, conf.ErrGetProfileInUse)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMalformedFileIsErrorAndKept(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	_, err := store.Load()
	require.ErrorIs(t, err, conf.ErrMalformed)

	_, err = store.ToggleCheckbox(1, 0, 0)
	require.ErrorIs(t, err, conf.ErrMalformed)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestLoadFillsMissingFields(t *testing.T) {
	store := newStore(t)
	legacy := `{
  "profiles": [{"id": "p1", "name": "Old", "level": 0, "progresses": [{"id": 3, "currentStep": 4, "steps": {"1": {"checkboxes": [0, 2]}}}]}],
  "profileInUse": "p1",
  "opacity": 0.5
}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacy), 0o644))

	doc, err := store.Load()
	require.NoError(t, err)

	assert.True(t, doc.AutoTravelCopy)
	assert.True(t, doc.AutoOpenGuides)
	assert.Equal(t, types.FontNormal, doc.FontSize)
	assert.Equal(t, types.DefaultShortcuts(), doc.Shortcuts)
	assert.NotNil(t, doc.Notes)
	assert.NotNil(t, doc.AutoPilots)
	assert.Equal(t, 0.5, doc.Opacity)

	require.Len(t, doc.Profiles, 1)
	assert.Equal(t, types.DefaultLevel, doc.Profiles[0].Level)
	assert.Nil(t, doc.Profiles[0].ServerID)
	assert.Equal(t, []uint32{0, 2}, doc.Profiles[0].Progresses[0].Steps[1].Checkboxes)
}

func TestSetCurrentStep(t *testing.T) {
	store := newStore(t, conf.WithStampLocalEdits(false))
	require.NoError(t, store.EnsureInitialized())

	progress, err := store.SetCurrentStep(9, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), progress.ID)
	assert.Equal(t, uint32(5), progress.CurrentStep)

	doc, err := store.Load()
	require.NoError(t, err)
	profile, err := conf.ProfileInUse(doc)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), conf.FindProgress(profile, 9).CurrentStep)
}

func TestResetBacksUpAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	store := newStore(t, conf.WithNotifier(notifier), conf.WithClock(func() time.Time { return fixed }))

	doc := types.DefaultConf()
	doc.Profiles[0].Name = "Before reset"
	require.NoError(t, store.Save(doc))

	require.NoError(t, store.Reset())

	backup := filepath.Join(filepath.Dir(store.Path()), "conf_2024_05_06_07_08_09.json")
	saved, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "Before reset")

	reset, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reset.Profiles, 1)
	assert.Equal(t, types.DefaultProfileName, reset.Profiles[0].Name)

	assert.Equal(t, []string{types.NotifyTypeConfReset}, notifier.kinds())
}

func TestResetWithoutFileStillWritesDefault(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Reset())

	_, err := os.Stat(store.Path())
	require.NoError(t, err)
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	store := newStore(t)

	err := store.Update(func(*types.Conf) error { return conf.ErrGetProfileInUse })
	require.ErrorIs(t, err, conf.ErrGetProfileInUse)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentTogglesKeepEveryUpdate(t *testing.T) {
	store := newStore(t, conf.WithStampLocalEdits(false))
	require.NoError(t, store.EnsureInitialized())

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(idx uint32) {
			defer wg.Done()
			_, err := store.ToggleCheckbox(1, 0, idx)
			assert.NoError(t, err)
		}(uint32(i))
	}
	wg.Wait()

	doc, err := store.Load()
	require.NoError(t, err)
	profile, err := conf.ProfileInUse(doc)
	require.NoError(t, err)
	assert.Len(t, conf.FindProgress(profile, 1).Steps[0].Checkboxes, n)
}

func TestSetRejectsNil(t *testing.T) {
	store := newStore(t)
	require.ErrorIs(t, store.Set(nil), conf.ErrSerializeConf)
}

func TestSetRejectsDanglingProfileInUse(t *testing.T) {
	store := newStore(t)

	doc := types.DefaultConf()
	doc.ProfileInUse = "missing"
	require.ErrorIs(t, store.Set(doc), conf.ErrGetProfileInUse)
	assert.NoFileExists(t, store.Path())

	doc.ProfileInUse = doc.Profiles[0].ID
	require.NoError(t, store.Set(doc))
	assert.FileExists(t, store.Path())
}
