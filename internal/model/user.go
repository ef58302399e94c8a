package model

import "time"

// User represents an account that can own venues. The password hash is
// never serialized.
//
// Fields:
//  ID           – store-assigned identifier, also the JWT subject.
//  Email        – unique, lower-cased email address.
//  Name         – display name.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
