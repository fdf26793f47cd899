package syncclient

import "github.com/moyoez/ganymede-go/types"

// Response shapes of the remote API. Steps come back as a dense array indexed by step.

type remoteProgressResponse struct {
	ID          uint32           `json:"id"`
	CurrentStep uint32           `json:"current_step"`
	Steps       []types.ConfStep `json:"steps"`
	UpdatedAt   string           `json:"updated_at"`
}

type remoteProfileResponse struct {
	ID         uint32                   `json:"id"`
	UUID       *string                  `json:"uuid"`
	Name       string                   `json:"name"`
	Progresses []remoteProgressResponse `json:"progresses"`
}

type syncServerResponse struct {
	Profiles []remoteProfileResponse `json:"profiles"`
}

type createProfileRequest struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

type createProfileResponse struct {
	ID uint32 `json:"id"`
}

type renameProfileRequest struct {
	Name string `json:"name"`
}

// SparseSteps turns a dense step array into the local map keyed by step index.
func SparseSteps(dense []types.ConfStep) map[uint32]types.ConfStep {
	steps := make(map[uint32]types.ConfStep, len(dense))
	for i, step := range dense {
		if step.Checkboxes == nil {
			step.Checkboxes = []uint32{}
		}
		steps[uint32(i)] = step
	}
	return steps
}

func (r syncServerResponse) toRemoteProfiles() []types.RemoteProfile {
	profiles := make([]types.RemoteProfile, 0, len(r.Profiles))
	for _, rp := range r.Profiles {
		progresses := make([]types.SyncProgressPayload, 0, len(rp.Progresses))
		for _, prog := range rp.Progresses {
			progresses = append(progresses, types.SyncProgressPayload{
				ID:          prog.ID,
				CurrentStep: prog.CurrentStep,
				Steps:       SparseSteps(prog.Steps),
				UpdatedAt:   prog.UpdatedAt,
			})
		}
		profiles = append(profiles, types.RemoteProfile{
			ID:         rp.ID,
			UUID:       rp.UUID,
			Name:       rp.Name,
			Progresses: progresses,
		})
	}
	return profiles
}
