package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/syncclient"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{syncclient.ErrTokensNotFound, "TokensNotFound", http.StatusUnauthorized},
		{&syncclient.ValidationError{Body: "{}"}, "ValidationError", http.StatusUnprocessableEntity},
		{&syncclient.StatusError{StatusCode: 500}, "RequestFailed", http.StatusBadGateway},
		{fmt.Errorf("%w: %w", syncclient.ErrConf, conf.ErrMalformed), "Conf", http.StatusInternalServerError},
		{fmt.Errorf("%w: disk full", conf.ErrSaveConf), "SaveConf", http.StatusInternalServerError},
		{fmt.Errorf("%w: %w", conf.ErrResetConf, conf.ErrSaveConf), "ResetConf", http.StatusInternalServerError},
		{auth.ErrUnknownState, "OAuth", http.StatusBadRequest},
		{fmt.Errorf("something else"), "", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			code, status := ErrorCode(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestParseGuideLink(t *testing.T) {
	id, step, err := ParseGuideLink("ganymede://guides/open/42?step=3")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)
	require.NotNil(t, step)
	assert.Equal(t, uint32(3), *step)

	id, step, err = ParseGuideLink("ganymede://guides/open/7")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), id)
	assert.Nil(t, step)

	_, _, err = ParseGuideLink("ganymede://guides/open/abc")
	assert.Error(t, err)

	_, _, err = ParseGuideLink("https://example.com/guides/open/1")
	assert.ErrorIs(t, err, ErrInvalidDeepLink)
}
