package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/syncclient"
	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

type SyncController struct {
	client *syncclient.Client
}

func NewSyncController(client *syncclient.Client) *SyncController {
	return &SyncController{client: client}
}

// POST /api/self/v1/sync/profiles
func (ctrl *SyncController) HandleSyncProfiles(c *gin.Context) {
	resp, err := ctrl.client.SyncProfiles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := notify.SyncCompleted(len(resp.Profiles)); err != nil {
		tool.DefaultLogger.Warnf("[Sync] %v", err)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}

// POST /api/self/v1/sync/profile
func (ctrl *SyncController) HandleCreateProfile(c *gin.Context) {
	var request types.CreateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	id, err := ctrl.client.CreateProfile(c.Request.Context(), request.Name, request.UUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(id))
}

// PATCH /api/self/v1/sync/profile/:serverId
func (ctrl *SyncController) HandleRenameProfile(c *gin.Context) {
	serverID, ok := uintParam(c, "serverId")
	if !ok {
		return
	}
	var request types.RenameProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := ctrl.client.RenameProfile(c.Request.Context(), serverID, request.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// DELETE /api/self/v1/sync/profile/:serverId
func (ctrl *SyncController) HandleDeleteProfile(c *gin.Context) {
	serverID, ok := uintParam(c, "serverId")
	if !ok {
		return
	}
	if err := ctrl.client.DeleteProfile(c.Request.Context(), serverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// PUT /api/self/v1/sync/profile/:serverId/progress/:guideId
func (ctrl *SyncController) HandleSyncProgress(c *gin.Context) {
	serverID, ok := uintParam(c, "serverId")
	if !ok {
		return
	}
	guideID, ok := uintParam(c, "guideId")
	if !ok {
		return
	}
	var request types.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := ctrl.client.SyncProgress(c.Request.Context(), serverID, guideID, request.CurrentStep, request.Steps); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandlePushActiveProgress pushes the saved progress of a guide for the profile in use.
// POST /api/self/v1/sync/progress/:guideId
func (ctrl *SyncController) HandlePushActiveProgress(c *gin.Context) {
	guideID, ok := uintParam(c, "guideId")
	if !ok {
		return
	}
	if err := ctrl.client.PushActiveProgress(c.Request.Context(), guideID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// GET /api/self/v1/user/me
func (ctrl *SyncController) HandleMe(c *gin.Context) {
	user, err := ctrl.client.Me(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(user))
}

func uintParam(c *gin.Context, name string) (uint32, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint32(v), true
}
