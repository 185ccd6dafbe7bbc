package model

import "gorm.io/gorm"

// User account table: users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                  json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"            json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"            json:"-"`
	BaseModel
}

// TableName table name
func (User) TableName() string { return "users" }

// BeforeCreate assigns the primary key
func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.UserID)
	return nil
}
