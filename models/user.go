package models

import "github.com/uptrace/bun"

// User is an API user with bcrypt-hashed password. Email and PushURL feed
// the result notifications; either may be empty and that channel is skipped.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int     `bun:"id,pk,autoincrement" json:"id"`
	Username string  `bun:"username,notnull,unique" json:"username"`
	Password string  `bun:"password,notnull" json:"-"`
	Email    *string `bun:"email" json:"email,omitempty"`
	PushURL  *string `bun:"push_url" json:"-"`
}
