package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

var ErrInvalidDeepLink = errors.New("deep link does not match any known pattern")

type OAuthController struct {
	flow   *auth.Flow
	tokens *auth.TokenStore
	store  *conf.Store
}

func NewOAuthController(flow *auth.Flow, tokens *auth.TokenStore, store *conf.Store) *OAuthController {
	return &OAuthController{flow: flow, tokens: tokens, store: store}
}

// HandleStart returns the authorization URL the UI opens in the system browser.
// POST /api/self/v1/oauth/start
func (ctrl *OAuthController) HandleStart(c *gin.Context) {
	authURL, err := ctrl.flow.Start()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"url": authURL}))
}

// GET /api/self/v1/oauth/tokens
func (ctrl *OAuthController) HandleGetTokens(c *gin.Context) {
	tokens, err := ctrl.tokens.Load()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(tokens))
}

// DELETE /api/self/v1/oauth/tokens
func (ctrl *OAuthController) HandleCleanTokens(c *gin.Context) {
	if err := ctrl.tokens.Clean(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(nil))
}

// HandleDeepLink relays a ganymede:// URL received by the desktop shell.
// OAuth callbacks complete the sign-in, guide links ask the UI to open a guide.
// POST /api/self/v1/deep-link
func (ctrl *OAuthController) HandleDeepLink(c *gin.Context) {
	var request types.DeepLinkRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tool.DefaultLogger.Debugf("[DeepLink] Handling URL: %s", request.URL)

	if auth.IsCallbackURL(request.URL) {
		code, state, err := auth.ParseCallbackURL(request.URL)
		if err != nil {
			respondError(c, err)
			return
		}
		// the exchange outlives a UI that closes the request early
		if err := ctrl.flow.HandleCallback(context.WithoutCancel(c.Request.Context()), code, state); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tool.FastReturnSuccess())
		return
	}

	guideID, step, err := ParseGuideLink(request.URL)
	if err != nil {
		tool.DefaultLogger.Warnf("[DeepLink] URL does not match expected pattern: %s", request.URL)
		badRequest(c, err.Error())
		return
	}

	var progression *uint32
	doc, err := ctrl.store.Load()
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := conf.ProfileInUse(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	if progress := conf.FindProgress(profile, guideID); progress != nil {
		current := progress.CurrentStep
		progression = &current
	}

	target := uint32(0)
	switch {
	case step != nil:
		target = *step
	case progression != nil:
		target = *progression
	}

	if err := notify.OpenGuide(guideID, target, progression); err != nil {
		tool.DefaultLogger.Warnf("[DeepLink] Failed to emit open guide request: %v", err)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"guideId":         guideID,
		"step":            target,
		"progressionStep": progression,
	}))
}

// ParseGuideLink parses ganymede://guides/open/{id}[?step={n}].
func ParseGuideLink(raw string) (guideID uint32, step *uint32, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidDeepLink, err)
	}
	idPart, ok := strings.CutPrefix(u.Path, "/open/")
	if u.Scheme != "ganymede" || u.Host != "guides" || !ok {
		return 0, nil, fmt.Errorf("%w: %s", ErrInvalidDeepLink, raw)
	}
	id, err := strconv.ParseUint(strings.TrimRight(idPart, "/"), 10, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid guide ID: %s", idPart)
	}
	if s := u.Query().Get("step"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid step: %s", s)
		}
		v := uint32(n)
		step = &v
	}
	return uint32(id), step, nil
}
