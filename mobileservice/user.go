package mobileservice

// User is an authenticated mobile service user. The Connection only
// reads the token when composing headers; token lifecycle (login,
// refresh, storage) belongs to the surrounding application.
type User struct {
	UserID    string
	AuthToken string
}
