package notify

import (
	"fmt"
	"sync"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

// MaxPayloadSize is the largest serialized notification accepted.
const MaxPayloadSize = 32 * 1024 // 32KB

// Hub fans a notification out to the connected UI clients.
type Hub interface {
	Broadcast(notification *types.Notification)
}

var (
	mu        sync.RWMutex
	hub       Hub
	useNotify = true
)

// SetUseNotify turns every send into a no-op when false.
func SetUseNotify(use bool) {
	mu.Lock()
	defer mu.Unlock()
	useNotify = use
}

func SetHub(h Hub) {
	mu.Lock()
	defer mu.Unlock()
	hub = h
}

// NotifyWSEnabled reports whether notifications reach a WebSocket hub.
func NotifyWSEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return useNotify && hub != nil
}

// SendNotification hands the notification to the hub.
func SendNotification(notification *types.Notification) error {
	mu.RLock()
	enabled, h := useNotify, hub
	mu.RUnlock()

	if !enabled || notification == nil {
		return nil
	}

	payload, err := tool.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to serialize notification data: %v", err)
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	if h == nil {
		tool.DefaultLogger.Debugf("[Notify] no hub, dropping %s", notification.Type)
		return nil
	}
	h.Broadcast(notification)
	tool.DefaultLogger.Infof("[Notify] Notification sent: %s - %s", notification.Type, notification.Title)
	return nil
}

// SyncCompleted reports a finished profile sync with the number of remote profiles seen.
func SyncCompleted(profiles int) error {
	return SendNotification(&types.Notification{
		Type:    types.NotifyTypeSyncCompleted,
		Title:   "Sync completed",
		Message: fmt.Sprintf("%d profile(s) synced", profiles),
		Data:    map[string]any{"profiles": profiles},
	})
}

// OpenGuide asks the UI to open guideID at step. progressionStep is the saved step, if any.
func OpenGuide(guideID, step uint32, progressionStep *uint32) error {
	data := map[string]any{
		"guideId": guideID,
		"step":    step,
	}
	if progressionStep != nil {
		data["progressionStep"] = *progressionStep
	}
	return SendNotification(&types.Notification{
		Type:  types.NotifyTypeOpenGuide,
		Title: "Open guide",
		Data:  data,
	})
}

type dispatcher struct{}

// Broadcast sends through SendNotification and logs failures.
func (dispatcher) Broadcast(notification *types.Notification) {
	if err := SendNotification(notification); err != nil {
		tool.DefaultLogger.Warnf("[Notify] %v", err)
	}
}

// Default routes notifications emitted by the stores to the configured hub.
var Default dispatcher
