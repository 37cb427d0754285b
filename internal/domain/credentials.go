package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// Credentials is an opaque capability over one identity class's cookies.
// It can be attached to outbound requests, merged with refreshed cookies
// and reduced to a cache key, but token values are never interpreted.
type Credentials struct {
	class   Class
	cookies []*http.Cookie
}

// CredentialsFromRequest captures the class's cookie slots from an
// incoming request. Cookies belonging to the other class are ignored so
// the two sessions stay disjoint.
func CredentialsFromRequest(r *http.Request, class Class) Credentials {
	slots := class.Slots()
	creds := Credentials{class: class}
	for _, name := range []string{slots.Access, slots.Refresh, slots.ProviderSession} {
		if ck, err := r.Cookie(name); err == nil && ck.Value != "" {
			creds.cookies = append(creds.cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return creds
}

// Class returns the identity class the credentials belong to.
func (c Credentials) Class() Class { return c.class }

// Empty reports whether neither an access nor a refresh credential is
// present. Presence is the only fact ever read from the slots.
func (c Credentials) Empty() bool {
	slots := c.class.Slots()
	return !c.has(slots.Access) && !c.has(slots.Refresh)
}

// ProviderSession returns the provider session token, if any. This is
// the one slot the gateway itself minted, so reading it is permitted.
func (c Credentials) ProviderSession() string {
	slots := c.class.Slots()
	for _, ck := range c.cookies {
		if ck.Name == slots.ProviderSession {
			return ck.Value
		}
	}
	return ""
}

// Attach adds the credential cookies to an outbound request.
func (c Credentials) Attach(req *http.Request) {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
}

// Merged returns credentials with refreshed cookies layered over the
// originals. Used for the single retry after a successful refresh.
func (c Credentials) Merged(updates []*http.Cookie) Credentials {
	merged := Credentials{class: c.class}
	replaced := make(map[string]bool, len(updates))
	for _, up := range updates {
		replaced[up.Name] = true
	}
	for _, ck := range c.cookies {
		if !replaced[ck.Name] {
			merged.cookies = append(merged.cookies, ck)
		}
	}
	for _, up := range updates {
		if up.Value != "" && up.MaxAge >= 0 {
			merged.cookies = append(merged.cookies, &http.Cookie{Name: up.Name, Value: up.Value})
		}
	}
	return merged
}

// CacheKey derives a stable key from the access credential without
// exposing the token itself. Empty when no access credential is held.
func (c Credentials) CacheKey() string {
	return c.keyFor(c.class.Slots().Access)
}

// RefreshKey derives a stable key from the refresh credential, used to
// coalesce concurrent refresh attempts for the same session.
func (c Credentials) RefreshKey() string {
	return c.keyFor(c.class.Slots().Refresh)
}

func (c Credentials) keyFor(name string) string {
	for _, ck := range c.cookies {
		if ck.Name == name {
			sum := sha256.Sum256([]byte(ck.Value))
			return hex.EncodeToString(sum[:])
		}
	}
	return ""
}

func (c Credentials) has(name string) bool {
	for _, ck := range c.cookies {
		if ck.Name == name {
			return true
		}
	}
	return false
}

// ExpiredCookies returns Set-Cookie values that clear exactly this
// class's slots on the browser, leaving the other class untouched.
func ExpiredCookies(class Class) []*http.Cookie {
	slots := class.Slots()
	out := make([]*http.Cookie, 0, 3)
	for _, name := range []string{slots.Access, slots.Refresh, slots.ProviderSession} {
		out = append(out, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
	return out
}
