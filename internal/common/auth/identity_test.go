package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/common/errors"
)

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	r.AddCookie(&http.Cookie{Name: "user", Value: value})
	return r
}

func TestFromRequest_ValidCookie(t *testing.T) {
	id, err := FromRequest(requestWithCookie(url.QueryEscape(`{"id":42,"name":"Maria"}`)))

	assert.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "Maria", id.Name)
}

func TestFromRequest_MissingName(t *testing.T) {
	id, err := FromRequest(requestWithCookie(url.QueryEscape(`{"id":7}`)))

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, AnonymousName, id.Name)
}

func TestFromRequest_NoCookie(t *testing.T) {
	id, err := FromRequest(httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	assert.NoError(t, err)
	assert.Equal(t, Anonymous(), id)
}

func TestFromRequest_MalformedCookie(t *testing.T) {
	id, err := FromRequest(requestWithCookie("not-json"))

	assert.Error(t, err)
	assert.Equal(t, errors.ErrCodeMalformedIdentity, errors.CodeOf(err))
	assert.Equal(t, Anonymous(), id)
}

func TestCookieHeader(t *testing.T) {
	assert.Equal(t, `user={"id":42}`, Identity{ID: 42, Name: "Maria"}.CookieHeader())
}
