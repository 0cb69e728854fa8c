package models

// User is an identity issued by SSO service and mirrored locally
type User struct {
	Id       int64
	Username string
}
