package models

import (
	"time"
)

// User represents a registered forum user.
// The password column holds an argon2id PHC-encoded hash and is never
// serialized to the wire.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:users_username_ux;column:username" json:"username"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_ux;column:email" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null;column:password" json:"-"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
