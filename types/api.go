package types

// Request bodies of the local procedure-call surface.

type ToggleCheckboxRequest struct {
	GuideID       uint32 `json:"guideId"`
	StepIndex     uint32 `json:"stepIndex"`
	CheckboxIndex uint32 `json:"checkboxIndex"`
}

type CurrentStepRequest struct {
	GuideID uint32 `json:"guideId"`
	Step    uint32 `json:"step"`
}

type CreateProfileRequest struct {
	Name string `json:"name" binding:"required"`
	UUID string `json:"uuid" binding:"required"`
}

type RenameProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type DeepLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// StatusResponse is returned by GET /api/self/v1/status.
type StatusResponse struct {
	Running         bool `json:"running"`
	NotifyWSEnabled bool `json:"notify_ws_enabled"`
	SignedIn        bool `json:"signed_in"`
}
