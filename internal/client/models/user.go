package models

// User is a signed-in account. ID is the identity provider's subject.
type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   int64
}
