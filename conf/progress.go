package conf

import (
	"slices"

	"github.com/moyoez/ganymede-go/types"
)

// ProfileInUse resolves conf.ProfileInUse. The returned pointer aliases conf.Profiles.
func ProfileInUse(conf *types.Conf) (*types.Profile, error) {
	for i := range conf.Profiles {
		if conf.Profiles[i].ID == conf.ProfileInUse {
			return &conf.Profiles[i], nil
		}
	}
	return nil, ErrGetProfileInUse
}

// FindProfile returns the profile with the given local id, or nil.
func FindProfile(conf *types.Conf, id string) *types.Profile {
	for i := range conf.Profiles {
		if conf.Profiles[i].ID == id {
			return &conf.Profiles[i]
		}
	}
	return nil
}

// FindProgress returns the progress of guideID in profile, or nil.
func FindProgress(profile *types.Profile, guideID uint32) *types.Progress {
	for i := range profile.Progresses {
		if profile.Progresses[i].ID == guideID {
			return &profile.Progresses[i]
		}
	}
	return nil
}

// ProgressFor returns the progress of guideID, creating it at step 0 on first access.
func ProgressFor(profile *types.Profile, guideID uint32) *types.Progress {
	if progress := FindProgress(profile, guideID); progress != nil {
		return progress
	}
	profile.Progresses = append(profile.Progresses, NewProgress(guideID))
	return &profile.Progresses[len(profile.Progresses)-1]
}

func NewProgress(guideID uint32) types.Progress {
	return types.Progress{
		ID:          guideID,
		CurrentStep: 0,
		Steps:       map[uint32]types.ConfStep{},
	}
}

// ToggleStepCheckbox removes checkboxIndex when present and adds it otherwise.
func ToggleStepCheckbox(step *types.ConfStep, checkboxIndex uint32) {
	if i := slices.Index(step.Checkboxes, checkboxIndex); i >= 0 {
		step.Checkboxes = slices.Delete(step.Checkboxes, i, i+1)
		return
	}
	step.Checkboxes = append(step.Checkboxes, checkboxIndex)
}

// ToggleCheckbox toggles checkboxIndex in the step stepIndex of progress, creating the step if needed,
// and returns the step as written back.
func ToggleCheckbox(progress *types.Progress, stepIndex, checkboxIndex uint32) types.ConfStep {
	if progress.Steps == nil {
		progress.Steps = map[uint32]types.ConfStep{}
	}
	step, ok := progress.Steps[stepIndex]
	if !ok {
		step = types.ConfStep{Checkboxes: []uint32{}}
	}
	ToggleStepCheckbox(&step, checkboxIndex)
	progress.Steps[stepIndex] = step
	return step
}

// SetCurrentStep moves guideID of profile to step, creating the progress on first access.
func SetCurrentStep(profile *types.Profile, guideID, step uint32) *types.Progress {
	progress := ProgressFor(profile, guideID)
	progress.CurrentStep = step
	return progress
}
