package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

type ConfController struct {
	store *conf.Store
}

func NewConfController(store *conf.Store) *ConfController {
	return &ConfController{store: store}
}

// HandleGet returns the whole document.
// GET /api/self/v1/conf
func (ctrl *ConfController) HandleGet(c *gin.Context) {
	doc, err := ctrl.store.Load()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(doc))
}

// HandleSet replaces the whole document and returns it as saved.
// PUT /api/self/v1/conf
func (ctrl *ConfController) HandleSet(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	// decoded like the file on disk, so absent fields get their defaults
	doc, err := conf.Decode(body)
	if err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := ctrl.store.Set(doc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(doc))
}

// HandleToggleCheckbox flips one checkbox of the profile in use and echoes its index.
// POST /api/self/v1/conf/toggle-checkbox
func (ctrl *ConfController) HandleToggleCheckbox(c *gin.Context) {
	var request types.ToggleCheckboxRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	checkbox, err := ctrl.store.ToggleCheckbox(request.GuideID, request.StepIndex, request.CheckboxIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(checkbox))
}

// HandleCurrentStep returns the progress after the move.
// POST /api/self/v1/conf/current-step
func (ctrl *ConfController) HandleCurrentStep(c *gin.Context) {
	var request types.CurrentStepRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	progress, err := ctrl.store.SetCurrentStep(request.GuideID, request.Step)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(progress))
}

// HandleReset backs up and resets the document. The UI is told through the notify hub.
// POST /api/self/v1/conf/reset
func (ctrl *ConfController) HandleReset(c *gin.Context) {
	if err := ctrl.store.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
