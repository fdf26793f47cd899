package types

// Notification types pushed to the UI.
const (
	NotifyTypeConfReset     = "conf_reset"     // document replaced by a default one, UI must reload from scratch
	NotifyTypeConfChanged   = "conf_changed"   // document edited outside this process
	NotifyTypeOAuthFlowEnd  = "oauth_flow_end" // tokens saved after a callback
	NotifyTypeSyncCompleted = "sync_completed"
	NotifyTypeOpenGuide     = "open_guide_request" // deep link asked for a guide
	NotifyTypeInfo          = "info"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "conf_reset"
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}
