// Package conf owns conf.json, the local profile/progress document.
//
// Every mutation is a whole-document read-modify-write done under one mutex,
// and every save goes through a temp file renamed over the target.
package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

// Notifier receives UI notifications emitted by the store.
type Notifier interface {
	Broadcast(notification *types.Notification)
}

// Store is the single authority reading and writing the configuration document.
type Store struct {
	path            string
	mu              sync.Mutex
	notifier        Notifier
	stampLocalEdits bool
	now             func() time.Time

	digestMu   sync.RWMutex
	lastDigest string
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithStampLocalEdits makes local progress edits set updatedAt, so a later sync
// sees them as newer than an older remote copy.
func WithStampLocalEdits(stamp bool) Option {
	return func(s *Store) { s.stampLocalEdits = stamp }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store for the document at path. Nothing is read until the first call.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:            path,
		stampLocalEdits: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields a fresh default document.
func (s *Store) Load() (*types.Conf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save normalizes conf and replaces the document with it.
func (s *Store) Save(conf *types.Conf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(conf)
}

// Set replaces the whole document, used when the UI saves its settings.
// A document whose profileInUse names no profile is rejected and nothing is written.
func (s *Store) Set(conf *types.Conf) error {
	if conf == nil {
		return fmt.Errorf("%w: nil document", ErrSerializeConf)
	}
	fillDefaults(conf)
	if _, err := ProfileInUse(conf); err != nil {
		return fmt.Errorf("%w: %q is not a profile id", err, conf.ProfileInUse)
	}
	return s.Save(conf)
}

// Update loads the document, applies fn and saves the result, holding the store
// lock for the whole span. Nothing is written when fn fails.
func (s *Store) Update(fn func(conf *types.Conf) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(conf); err != nil {
		return err
	}
	return s.save(conf)
}

// EnsureInitialized creates the conf directory and a default document if they do not exist yet.
func (s *Store) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateConfDir, err)
	}

	tool.DefaultLogger.Infof("[Conf] path: %s", s.path)

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrUnhandledIo, err)
	}

	tool.DefaultLogger.Infof("[Conf] file does not exist, creating default one")
	return s.save(types.DefaultConf())
}

// ToggleCheckbox flips checkboxIndex in step stepIndex of guideID for the profile in use
// and persists the document. It returns checkboxIndex as acknowledgement.
func (s *Store) ToggleCheckbox(guideID, stepIndex, checkboxIndex uint32) (uint32, error) {
	tool.DefaultLogger.Debugf("[Conf] toggle_guide_checkbox: guide_id: %d, step_index: %d, checkbox_index: %d",
		guideID, stepIndex, checkboxIndex)

	err := s.Update(func(conf *types.Conf) error {
		profile, err := ProfileInUse(conf)
		if err != nil {
			return err
		}
		progress := ProgressFor(profile, guideID)
		ToggleCheckbox(progress, stepIndex, checkboxIndex)
		s.stamp(progress)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return checkboxIndex, nil
}

// SetCurrentStep moves the profile in use to step of guideID and returns the updated progress.
func (s *Store) SetCurrentStep(guideID, step uint32) (types.Progress, error) {
	var updated types.Progress
	err := s.Update(func(conf *types.Conf) error {
		profile, err := ProfileInUse(conf)
		if err != nil {
			return err
		}
		progress := SetCurrentStep(profile, guideID, step)
		s.stamp(progress)
		updated = *progress
		return nil
	})
	return updated, err
}

// Reset backs up the current document, replaces it with a default one and tells
// the UI to reload from scratch.
func (s *Store) Reset() error {
	s.mu.Lock()
	backup, err := s.backup()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrResetConf, err)
	}
	err = s.save(types.DefaultConf())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResetConf, err)
	}

	if backup != "" {
		tool.DefaultLogger.Infof("[Conf] previous conf saved to %s", backup)
	}
	tool.DefaultLogger.Infof("[Conf] conf reset")
	s.broadcast(&types.Notification{
		Type:    types.NotifyTypeConfReset,
		Title:   "Configuration reset",
		Message: "The configuration was reset, reload required",
	})
	return nil
}

// Backup copies the current document next to it as conf_YYYY_MM_DD_HH_MM_SS.json.
func (s *Store) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backup()
}

func (s *Store) backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	target := filepath.Join(filepath.Dir(s.path), tool.BackupFileName(s.now()))
	if err := writeFileAtomic(target, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveConf, err)
	}
	return target, nil
}

func (s *Store) load() (*types.Conf, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.DefaultConf(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnhandledIo, err)
	}
	return Decode(data)
}

func (s *Store) save(conf *types.Conf) error {
	normalize(conf)

	data, err := tool.MarshalPretty(conf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializeConf, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateConfDir, err)
	}

	// recorded before the rename so the watcher never sees our own write as external
	s.setDigest(tool.Digest(data))
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveConf, err)
	}
	return nil
}

func (s *Store) stamp(progress *types.Progress) {
	if !s.stampLocalEdits {
		return
	}
	ts := s.now().UTC().Format(time.RFC3339)
	progress.UpdatedAt = &ts
}

func (s *Store) broadcast(notification *types.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(notification)
}

func (s *Store) setDigest(digest string) {
	s.digestMu.Lock()
	defer s.digestMu.Unlock()
	s.lastDigest = digest
}

// isOwnWrite reports whether data is what this store last wrote.
func (s *Store) isOwnWrite(data []byte) bool {
	s.digestMu.RLock()
	defer s.digestMu.RUnlock()
	return s.lastDigest == tool.Digest(data)
}

// Decode parses a document, filling the fields an older document lacks.
func Decode(data []byte) (*types.Conf, error) {
	conf := types.DefaultPreferences()
	if err := tool.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	fillDefaults(conf)
	return conf, nil
}

func normalize(conf *types.Conf) {
	switch {
	case math.IsNaN(conf.Opacity):
		conf.Opacity = types.MaxOpacity
	default:
		conf.Opacity = min(max(conf.Opacity, types.MinOpacity), types.MaxOpacity)
	}
}

func fillDefaults(conf *types.Conf) {
	if conf.Lang == "" {
		conf.Lang = types.LangFr
	}
	if conf.FontSize == "" {
		conf.FontSize = types.FontNormal
	}
	if conf.Profiles == nil {
		conf.Profiles = []types.Profile{}
	}
	if conf.AutoPilots == nil {
		conf.AutoPilots = []types.AutoPilot{}
	}
	if conf.Notes == nil {
		conf.Notes = []types.Note{}
	}

	defaults := types.DefaultShortcuts()
	if conf.Shortcuts.ResetConf == "" {
		conf.Shortcuts.ResetConf = defaults.ResetConf
	}
	if conf.Shortcuts.GoNextStep == "" {
		conf.Shortcuts.GoNextStep = defaults.GoNextStep
	}
	if conf.Shortcuts.GoPreviousStep == "" {
		conf.Shortcuts.GoPreviousStep = defaults.GoPreviousStep
	}
	if conf.Shortcuts.CopyCurrentStep == "" {
		conf.Shortcuts.CopyCurrentStep = defaults.CopyCurrentStep
	}

	for i := range conf.Profiles {
		profile := &conf.Profiles[i]
		if profile.Level == 0 {
			profile.Level = types.DefaultLevel
		}
		if profile.Progresses == nil {
			profile.Progresses = []types.Progress{}
		}
		for j := range profile.Progresses {
			progress := &profile.Progresses[j]
			if progress.Steps == nil {
				progress.Steps = map[uint32]types.ConfStep{}
			}
			for idx, step := range progress.Steps {
				if step.Checkboxes == nil {
					step.Checkboxes = []uint32{}
					progress.Steps[idx] = step
				}
			}
		}
	}
}

// writeFileAtomic writes data to a temp file in the target directory, then renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
