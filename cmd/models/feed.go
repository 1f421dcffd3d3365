package models

import (
    "strings"
    "time"
)

const (
    MediaTypeImage = "image"
    MediaTypeVideo = "video"
)


type Post struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`
    Content   string    `gorm:"column:content;type:text" json:"content"`
    MediaPath string    `gorm:"column:media_path;size:500" json:"media_path,omitempty"`
    MediaType string    `gorm:"column:media_type;size:10" json:"media_type,omitempty"`
    CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
    Likes     int       `gorm:"column:likes;not null;default:0" json:"likes"`
    User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasContent reports whether the post carries text or a media attachment.
// A post must have at least one of the two.
func (p *Post) HasContent() bool {
    return strings.TrimSpace(p.Content) != "" || p.MediaPath != ""
}


// Like rows are unique per (user, post); the key is what turns a racing
// double-insert into a detectable conflict.
type Like struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
    PostID    uint      `gorm:"column:post_id;not null;uniqueIndex:idx_likes_user_post" json:"post_id"`
    CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

type Comment struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    PostID    uint      `gorm:"column:post_id;not null;index" json:"post_id"`
    UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
    Content   string    `gorm:"column:content;type:text;not null" json:"content"`
    CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
    User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
