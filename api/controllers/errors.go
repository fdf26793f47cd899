package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/syncclient"
	"github.com/moyoez/ganymede-go/tool"
)

type errorKind struct {
	target error
	code   string
	status int
}

// Ordered: wrapping errors come before the errors they wrap.
var errorKinds = []errorKind{
	{syncclient.ErrTokensNotFound, "TokensNotFound", http.StatusUnauthorized},
	{auth.ErrTokensNotFound, "TokensNotFound", http.StatusUnauthorized},
	{syncclient.ErrNotConnected, "NotConnected", http.StatusUnauthorized},
	{syncclient.ErrValidation, "ValidationError", http.StatusUnprocessableEntity},
	{syncclient.ErrProfileOrGuideNotFound, "ProfileOrGuideNotFound", http.StatusNotFound},
	{syncclient.ErrProfileNotSynced, "ProfileNotSynced", http.StatusConflict},
	{syncclient.ErrInvalidResponse, "InvalidResponse", http.StatusBadGateway},
	{syncclient.ErrRequestFailed, "RequestFailed", http.StatusBadGateway},
	{syncclient.ErrConf, "Conf", http.StatusInternalServerError},
	{conf.ErrResetConf, "ResetConf", http.StatusInternalServerError},
	{conf.ErrMalformed, "Malformed", http.StatusInternalServerError},
	{conf.ErrCreateConfDir, "CreateConfDir", http.StatusInternalServerError},
	{conf.ErrSerializeConf, "SerializeConf", http.StatusInternalServerError},
	{conf.ErrSaveConf, "SaveConf", http.StatusInternalServerError},
	{conf.ErrGetProfileInUse, "GetProfileInUse", http.StatusConflict},
	{conf.ErrUnhandledIo, "UnhandledIo", http.StatusInternalServerError},
	{auth.ErrUnknownState, "OAuth", http.StatusBadRequest},
	{auth.ErrInvalidCallback, "OAuth", http.StatusBadRequest},
	{auth.ErrTokenExchange, "OAuth", http.StatusBadGateway},
	{auth.ErrInvalidTokenResponse, "OAuth", http.StatusBadGateway},
	{auth.ErrSaveAuth, "OAuth", http.StatusInternalServerError},
	{auth.ErrLoadAuth, "OAuth", http.StatusInternalServerError},
	{auth.ErrCleanAuth, "OAuth", http.StatusInternalServerError},
}

// ErrorCode returns the error kind reported to the UI, or "" when err is not one of ours.
func ErrorCode(err error) (string, int) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			return kind.code, kind.status
		}
	}
	return "", http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code, status := ErrorCode(err)
	if status >= http.StatusInternalServerError {
		tool.DefaultLogger.Errorf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		tool.DefaultLogger.Warnf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	if code == "" {
		c.JSON(status, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(status, tool.FastReturnErrorWithCode(err.Error(), code))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, tool.FastReturnError(msg))
}
