package domain

// User is the read-only identity view this backend consumes; the identity
// provider owns accounts, credentials and profiles.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
