package types

// AuthenticatedUser is the caller bound to the request by the auth middleware.
type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
