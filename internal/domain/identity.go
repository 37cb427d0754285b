package domain

// Class is an identity class that can hold a session. The user and mom
// classes are independent: both can hold valid credentials at the same
// time, and only route guarding makes them mutually exclusive.
type Class string

const (
	ClassAnonymous Class = "anonymous"
	ClassUser      Class = "user"
	ClassMom       Class = "mom"
)

// CookieSlots names the browser cookie slots owned by an identity class.
// Values are opaque bearer tokens set by the backend; the gateway relays
// and expires them but never reads their contents.
type CookieSlots struct {
	Access          string
	Refresh         string
	ProviderSession string
}

var cookieSlots = map[Class]CookieSlots{
	ClassUser: {Access: "AccessToken", Refresh: "RefreshToken", ProviderSession: "OtpSession"},
	ClassMom:  {Access: "MomAccessToken", Refresh: "MomRefreshToken", ProviderSession: "MomOtpSession"},
}

// Slots returns the cookie slot names for the class.
func (c Class) Slots() CookieSlots {
	return cookieSlots[c]
}

// Other returns the opposite session-holding class.
func (c Class) Other() Class {
	if c == ClassMom {
		return ClassUser
	}
	return ClassMom
}

// HomeRoute is where an authenticated member of the class lands.
func (c Class) HomeRoute() string {
	if c == ClassMom {
		return "/mom/home"
	}
	return "/user/home"
}

// LoginRoute is where an unauthenticated visitor of the class is sent.
func (c Class) LoginRoute() string {
	if c == ClassMom {
		return "/mom/login"
	}
	return "/login"
}

// Valid reports whether the class can hold a session.
func (c Class) Valid() bool {
	return c == ClassUser || c == ClassMom
}

// LoginIdentity is the minimal identity record the backend returns on a
// successful phone submit, before the OTP is verified.
type LoginIdentity struct {
	ID     string `json:"_id"`
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

// ChallengeHandle identifies an in-flight OTP challenge at the provider.
// It is consumed exactly once by code submission.
type ChallengeHandle struct {
	FlowID string
}
