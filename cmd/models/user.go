package models

import "time"


type User struct {
    ID           uint      `gorm:"primaryKey" json:"id"`
    Username     string    `gorm:"column:username;size:255;uniqueIndex;not null" json:"username"`
    PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
    CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
}
