// Package models contains the data types exchanged between the client
// packages: the authenticated session, backend content metadata, and the
// local file reference fed into the upload workflow.
package models

// User is the authenticated account as reported by the backend profile
// endpoint. The backend is inconsistent about the id field name
// ("id" vs "user_id"); the api package normalizes both into ID.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the authenticated identity plus bearer token. Token and User
// are persisted and cleared together, never one without the other.
type Session struct {
	Token string
	User  User
}
