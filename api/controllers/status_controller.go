package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/types"
)

// UserStatus returns running state, notify availability and whether tokens are stored.
// GET /api/self/v1/status
func UserStatus(tokens *auth.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		signedIn := false
		if tokens != nil {
			if _, err := tokens.AccessToken(); err == nil {
				signedIn = true
			}
		}
		c.JSON(http.StatusOK, types.StatusResponse{
			Running:         true,
			NotifyWSEnabled: notify.NotifyWSEnabled(),
			SignedIn:        signedIn,
		})
	}
}
