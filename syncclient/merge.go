package syncclient

import (
	"maps"
	"time"

	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/types"
)

// MergeResult counts what a merge changed in the local document.
type MergeResult struct {
	Linked   int `json:"linked"`   // local profiles that got their server id
	Created  int `json:"created"`  // remote profiles appended locally
	Updated  int `json:"updated"`  // local progress replaced by a newer remote one
	Adopted  int `json:"adopted"`  // remote progress missing locally
	Skipped  int `json:"skipped"`  // remote profiles without uuid, or repeating an adopted uuid
	Retained int `json:"retained"` // local progress kept over an older remote one
}

// Merge folds remote profiles into doc. Profiles are matched by uuid, progress by guide id,
// and the most recently updated side of a progress wins.
// Unknown profiles are appended after every known one is merged; when the server repeats
// an unknown uuid only its first entry is adopted.
func Merge(doc *types.Conf, remote []types.RemoteProfile) MergeResult {
	var result MergeResult
	var unknown []types.RemoteProfile

	for _, rp := range remote {
		if rp.UUID == nil {
			result.Skipped++
			continue
		}

		local := conf.FindProfile(doc, *rp.UUID)
		if local == nil {
			unknown = append(unknown, rp)
			continue
		}

		serverID := rp.ID
		local.ServerID = &serverID
		result.Linked++

		for _, remoteProgress := range rp.Progresses {
			localProgress := conf.FindProgress(local, remoteProgress.ID)
			if localProgress == nil {
				local.Progresses = append(local.Progresses, progressFromRemote(remoteProgress))
				result.Adopted++
				continue
			}
			if !remoteIsNewer(localProgress.UpdatedAt, remoteProgress.UpdatedAt) {
				result.Retained++
				continue
			}
			*localProgress = progressFromRemote(remoteProgress)
			result.Updated++
		}
	}

	for _, rp := range unknown {
		if conf.FindProfile(doc, *rp.UUID) != nil {
			result.Skipped++
			continue
		}
		doc.Profiles = append(doc.Profiles, newProfileFromRemote(*rp.UUID, rp))
		result.Created++
	}

	return result
}

// remoteIsNewer reports whether the remote timestamp wins over the local one.
// A missing or unreadable local timestamp always loses; an unreadable remote one never wins.
func remoteIsNewer(local *string, remote string) bool {
	if local == nil {
		return true
	}
	localTS, err := time.Parse(time.RFC3339Nano, *local)
	if err != nil {
		return true
	}
	remoteTS, err := time.Parse(time.RFC3339Nano, remote)
	if err != nil {
		return false
	}
	return remoteTS.After(localTS)
}

func progressFromRemote(rp types.SyncProgressPayload) types.Progress {
	updatedAt := rp.UpdatedAt
	steps := make(map[uint32]types.ConfStep, len(rp.Steps))
	maps.Copy(steps, rp.Steps)
	return types.Progress{
		ID:          rp.ID,
		CurrentStep: rp.CurrentStep,
		Steps:       steps,
		UpdatedAt:   &updatedAt,
	}
}

func newProfileFromRemote(uuid string, rp types.RemoteProfile) types.Profile {
	serverID := rp.ID
	progresses := make([]types.Progress, 0, len(rp.Progresses))
	for _, prog := range rp.Progresses {
		progresses = append(progresses, progressFromRemote(prog))
	}
	return types.Profile{
		ID:         uuid,
		Name:       rp.Name,
		Level:      types.DefaultLevel,
		Progresses: progresses,
		ServerID:   &serverID,
	}
}
