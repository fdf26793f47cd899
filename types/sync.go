package types

// SyncProgressPayload is one progress record as pushed to the server and as returned to the UI.
type SyncProgressPayload struct {
	ID          uint32              `json:"id"`
	CurrentStep uint32              `json:"current_step"`
	Steps       map[uint32]ConfStep `json:"steps"`
	UpdatedAt   string              `json:"updated_at"`
}

// SyncProfilePayload is one local profile in a POST /profiles/sync request.
type SyncProfilePayload struct {
	UUID       string                `json:"uuid"`
	Name       string                `json:"name"`
	Progresses []SyncProgressPayload `json:"progresses"`
}

// SyncRequest is the body of POST /profiles/sync.
type SyncRequest struct {
	Profiles []SyncProfilePayload `json:"profiles"`
}

// RemoteProfile is a server profile after a sync, steps already converted to the local sparse shape.
type RemoteProfile struct {
	ID         uint32                `json:"id"`
	UUID       *string               `json:"uuid"`
	Name       string                `json:"name"`
	Progresses []SyncProgressPayload `json:"progresses"`
}

// SyncResponse lists the remote-known profiles after a sync. Informational only.
type SyncResponse struct {
	Profiles []RemoteProfile `json:"profiles"`
}

// ProgressUpdateRequest is the body of PUT /profiles/{server_id}/progress/{guide_id}.
type ProgressUpdateRequest struct {
	CurrentStep uint32              `json:"current_step"`
	Steps       map[uint32]ConfStep `json:"steps"`
}

// User is the authenticated account returned by GET /me.
type User struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	IsAdmin     uint8  `json:"is_admin"`
	IsCertified uint8  `json:"is_certified"`
	Lang        string `json:"lang"`
}
