package store

import (
    "errors"
    "log"
    "strings"
    "time"

    "github.com/TOHSTUDIO3/Social-media/cmd/models"
    "gorm.io/gorm"
)

// MediaRemover removes a stored media file by path. Removal is best effort:
// a failure is logged and never undoes the row deletion that triggered it.
type MediaRemover interface {
    Remove(path string) error
}

// MediaRef is a validated media attachment: stored path plus its type tag.
// Validation happens at the boundary; the store trusts the classification.
type MediaRef struct {
    Path string
    Type string
}

// ContentStore owns posts and their denormalized like counter.
type ContentStore struct {
    db         *gorm.DB
    media      MediaRemover
    engagement *EngagementStore
}

func NewContentStore(db *gorm.DB, media MediaRemover, engagement *EngagementStore) *ContentStore {
    return &ContentStore{db: db, media: media, engagement: engagement}
}

// CreatePost publishes a post for authorID. At least one of text content and
// media must be present; whitespace-only text counts as absent.
func (s *ContentStore) CreatePost(authorID uint, content string, media *MediaRef) (*models.Post, error) {
    post := models.Post{
        UserID:    authorID,
        Content:   strings.TrimSpace(content),
        CreatedAt: time.Now().UTC(),
    }
    if media != nil {
        post.MediaPath = media.Path
        post.MediaType = media.Type
    }
    if !post.HasContent() {
        return nil, ErrEmptyPost
    }

    if err := s.db.Create(&post).Error; err != nil {
        return nil, err
    }
    return &post, nil
}

func (s *ContentStore) GetPost(postID uint) (*models.Post, error) {
    var post models.Post
    if err := s.db.First(&post, postID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &post, nil
}

// ListAll returns every post newest first, author preloaded. This is the feed
// query.
func (s *ContentStore) ListAll() ([]models.Post, error) {
    var posts []models.Post
    if err := s.db.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
        return nil, err
    }
    return posts, nil
}

func (s *ContentStore) ListByAuthor(userID uint) ([]models.Post, error) {
    var posts []models.Post
    if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
        return nil, err
    }
    return posts, nil
}

// DeletePost removes a post owned by requesterID together with every like and
// comment referencing it. The cascade commits as one transaction; the media
// file cleanup runs after the commit and its failure is only logged.
func (s *ContentStore) DeletePost(postID, requesterID uint) error {
    post, err := s.GetPost(postID)
    if err != nil {
        return err
    }
    if post.UserID != requesterID {
        return ErrForbidden
    }

    err = s.db.Transaction(func(tx *gorm.DB) error {
        if err := s.engagement.DeleteByPost(tx, postID); err != nil {
            return err
        }
        return tx.Delete(&models.Post{}, postID).Error
    })
    if err != nil {
        return err
    }

    if post.MediaPath != "" && s.media != nil {
        if err := s.media.Remove(post.MediaPath); err != nil {
            log.Printf("Error deleting media %s: %v", post.MediaPath, err)
        }
    }
    return nil
}
