package syncclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/ganymede-go/types"
)

func strPtr(s string) *string { return &s }

func docWithProgress(profileID string, progress types.Progress) *types.Conf {
	doc := types.DefaultPreferences()
	doc.Profiles = []types.Profile{{
		ID:         profileID,
		Name:       "Local",
		Level:      types.DefaultLevel,
		Progresses: []types.Progress{progress},
	}}
	doc.ProfileInUse = profileID
	return doc
}

func TestMergeRemoteNewerWins(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{
		ID:          5,
		CurrentStep: 1,
		Steps:       map[uint32]types.ConfStep{0: {Checkboxes: []uint32{1}}},
		UpdatedAt:   strPtr("2024-01-01T00:00:00Z"),
	})
	remote := []types.RemoteProfile{{
		ID:   77,
		UUID: strPtr("p1"),
		Name: "Remote",
		Progresses: []types.SyncProgressPayload{{
			ID:          5,
			CurrentStep: 9,
			Steps:       map[uint32]types.ConfStep{2: {Checkboxes: []uint32{0}}},
			UpdatedAt:   "2024-02-01T00:00:00Z",
		}},
	}}

	result := Merge(doc, remote)

	assert.Equal(t, 1, result.Updated)
	profile := doc.Profiles[0]
	require.NotNil(t, profile.ServerID)
	assert.Equal(t, uint32(77), *profile.ServerID)
	assert.Equal(t, "Local", profile.Name)
	assert.Equal(t, uint32(9), profile.Progresses[0].CurrentStep)
	assert.Equal(t, map[uint32]types.ConfStep{2: {Checkboxes: []uint32{0}}}, profile.Progresses[0].Steps)
	assert.Equal(t, "2024-02-01T00:00:00Z", *profile.Progresses[0].UpdatedAt)
}

func TestMergeLocalNewerKept(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{
		ID:          5,
		CurrentStep: 4,
		Steps:       map[uint32]types.ConfStep{},
		UpdatedAt:   strPtr("2024-03-01T00:00:00Z"),
	})
	remote := []types.RemoteProfile{{
		ID:   1,
		UUID: strPtr("p1"),
		Progresses: []types.SyncProgressPayload{{
			ID:          5,
			CurrentStep: 9,
			UpdatedAt:   "2024-02-01T00:00:00Z",
		}},
	}}

	result := Merge(doc, remote)

	assert.Equal(t, 1, result.Retained)
	assert.Equal(t, uint32(4), doc.Profiles[0].Progresses[0].CurrentStep)
	assert.Equal(t, "2024-03-01T00:00:00Z", *doc.Profiles[0].Progresses[0].UpdatedAt)
	require.NotNil(t, doc.Profiles[0].ServerID, "server id is set even when progress is kept")
}

func TestMergeUnstampedLocalLoses(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{ID: 5, CurrentStep: 4, Steps: map[uint32]types.ConfStep{}})
	remote := []types.RemoteProfile{{
		ID:         1,
		UUID:       strPtr("p1"),
		Progresses: []types.SyncProgressPayload{{ID: 5, CurrentStep: 2, UpdatedAt: "2020-01-01T00:00:00Z"}},
	}}

	Merge(doc, remote)

	assert.Equal(t, uint32(2), doc.Profiles[0].Progresses[0].CurrentStep)
}

func TestRemoteIsNewer(t *testing.T) {
	tests := []struct {
		name   string
		local  *string
		remote string
		want   bool
	}{
		{"no local", nil, "2024-01-01T00:00:00Z", true},
		{"equal", strPtr("2024-01-01T00:00:00Z"), "2024-01-01T00:00:00Z", false},
		{"offsets compared as instants", strPtr("2024-01-01T02:00:00+02:00"), "2024-01-01T00:30:00Z", true},
		{"fractional seconds", strPtr("2024-01-01T00:00:00Z"), "2024-01-01T00:00:00.5Z", true},
		{"unreadable local", strPtr("yesterday"), "2024-01-01T00:00:00Z", true},
		{"unreadable remote", strPtr("2024-01-01T00:00:00Z"), "tomorrow", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remoteIsNewer(tt.local, tt.remote))
		})
	}
}

func TestMergeAdoptsUnknownProfile(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{ID: 1, Steps: map[uint32]types.ConfStep{}})
	remote := []types.RemoteProfile{{
		ID:   12,
		UUID: strPtr("p2"),
		Name: "From server",
		Progresses: []types.SyncProgressPayload{{
			ID:          3,
			CurrentStep: 1,
			Steps:       SparseSteps([]types.ConfStep{{Checkboxes: []uint32{0}}, {Checkboxes: []uint32{1, 2}}}),
			UpdatedAt:   "2024-01-01T00:00:00Z",
		}},
	}}

	result := Merge(doc, remote)

	assert.Equal(t, 1, result.Created)
	require.Len(t, doc.Profiles, 2)
	adopted := doc.Profiles[1]
	assert.Equal(t, "p2", adopted.ID)
	assert.Equal(t, "From server", adopted.Name)
	assert.Equal(t, types.DefaultLevel, adopted.Level)
	require.NotNil(t, adopted.ServerID)
	assert.Equal(t, uint32(12), *adopted.ServerID)
	assert.Equal(t, map[uint32]types.ConfStep{
		0: {Checkboxes: []uint32{0}},
		1: {Checkboxes: []uint32{1, 2}},
	}, adopted.Progresses[0].Steps)
	assert.Equal(t, "p1", doc.ProfileInUse)
}

func TestMergeRepeatedUnknownUUIDKeepsFirst(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{ID: 1, Steps: map[uint32]types.ConfStep{}})
	remote := []types.RemoteProfile{
		{ID: 20, UUID: strPtr("p2"), Name: "First"},
		{ID: 21, UUID: strPtr("p2"), Name: "Second"},
	}

	result := Merge(doc, remote)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, doc.Profiles, 2)
	assert.Equal(t, "First", doc.Profiles[1].Name)
	require.NotNil(t, doc.Profiles[1].ServerID)
	assert.Equal(t, uint32(20), *doc.Profiles[1].ServerID)
}

func TestMergeSkipsProfilesWithoutUUID(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{ID: 1, Steps: map[uint32]types.ConfStep{}})

	result := Merge(doc, []types.RemoteProfile{{ID: 3, Name: "orphan"}})

	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, doc.Profiles, 1)
	assert.Nil(t, doc.Profiles[0].ServerID)
}

func TestMergeAddsMissingProgress(t *testing.T) {
	doc := docWithProgress("p1", types.Progress{ID: 1, Steps: map[uint32]types.ConfStep{}})
	remote := []types.RemoteProfile{{
		ID:         1,
		UUID:       strPtr("p1"),
		Progresses: []types.SyncProgressPayload{{ID: 2, CurrentStep: 6, UpdatedAt: "2024-01-01T00:00:00Z"}},
	}}

	result := Merge(doc, remote)

	assert.Equal(t, 1, result.Adopted)
	require.Len(t, doc.Profiles[0].Progresses, 2)
	assert.Equal(t, uint32(6), doc.Profiles[0].Progresses[1].CurrentStep)
	assert.NotNil(t, doc.Profiles[0].Progresses[1].Steps)
}
