// internal/common/auth/identity.go

// Package auth extracts the caller identity from the session cookie issued
// by the CRM front end. The cookie is trusted upstream; this service only
// decodes it.
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"sales-assistant/internal/common/errors"
)

const cookieName = "user"

// AnonymousName is the display name used when no identity is available.
const AnonymousName = "Usuário"

// Identity is the authenticated CRM user attached to a chat request.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Anonymous is the fallback identity. Requests proceed with it whenever the
// cookie is absent or unparsable.
func Anonymous() Identity {
	return Identity{ID: 0, Name: AnonymousName}
}

// FromRequest decodes the session cookie. On any failure it returns the
// anonymous identity together with a MALFORMED_IDENTITY error for the
// diagnostic channel; callers continue with the returned identity.
func FromRequest(r *http.Request) (Identity, error) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Anonymous(), nil
	}

	raw := c.Value
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Anonymous(), errors.NewMalformedIdentityError(err)
	}
	if id.Name == "" {
		id.Name = AnonymousName
	}
	return id, nil
}

// CookieHeader renders the identity the way the leads endpoint expects it
// in the forwarded Cookie header.
func (id Identity) CookieHeader() string {
	return fmt.Sprintf(`user={"id":%d}`, id.ID)
}
