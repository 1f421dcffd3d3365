package store

import (
    "errors"
    "strings"
    "time"

    "github.com/TOHSTUDIO3/Social-media/cmd/models"
    "gorm.io/gorm"
)

// EngagementStore owns likes and comments.
type EngagementStore struct {
    db    *gorm.DB
    pairs pairLocks
}

func NewEngagementStore(db *gorm.DB) *EngagementStore {
    return &EngagementStore{db: db}
}

type LikeResult struct {
    Liked     bool `json:"liked"`
    LikeCount int  `json:"likes"`
}

// errAlreadyLiked aborts the toggle transaction when a concurrent toggle won
// the insert; the aborted transaction cannot run further statements, so the
// counter is re-read outside it.
var errAlreadyLiked = errors.New("like row already exists")

// ToggleLike flips userID's like on a post and keeps posts.likes in step with
// the likes table. Toggles on the same (user, post) pair are serialized by a
// keyed mutex; the row mutation and the counter adjustment commit together.
// The returned count is read back from the post row, never computed by the
// caller. A missing post fails with ErrNotFound and rolls everything back.
func (s *EngagementStore) ToggleLike(userID, postID uint) (*LikeResult, error) {
    unlock := s.pairs.lock(userID, postID)
    defer unlock()

    var res LikeResult
    err := s.db.Transaction(func(tx *gorm.DB) error {
        var existing models.Like
        err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error

        switch {
        case err == nil:
            if err := tx.Delete(&models.Like{}, existing.ID).Error; err != nil {
                return err
            }
            if err := tx.Model(&models.Post{}).Where("id = ?", postID).
                UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error; err != nil {
                return err
            }
            res.Liked = false

        case errors.Is(err, gorm.ErrRecordNotFound):
            like := models.Like{UserID: userID, PostID: postID, CreatedAt: time.Now().UTC()}
            if err := tx.Create(&like).Error; err != nil {
                if errors.Is(err, gorm.ErrDuplicatedKey) {
                    return errAlreadyLiked
                }
                return err
            }
            if err := tx.Model(&models.Post{}).Where("id = ?", postID).
                UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error; err != nil {
                return err
            }
            res.Liked = true

        default:
            return err
        }

        return readLikeCount(tx, postID, &res)
    })

    if errors.Is(err, errAlreadyLiked) {
        // Another writer inserted the row first; fold into "already liked".
        res.Liked = true
        if err := readLikeCount(s.db, postID, &res); err != nil {
            return nil, err
        }
        return &res, nil
    }
    if err != nil {
        return nil, err
    }
    return &res, nil
}

func readLikeCount(db *gorm.DB, postID uint, res *LikeResult) error {
    var post models.Post
    if err := db.Select("likes").First(&post, postID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return ErrNotFound
        }
        return err
    }
    res.LikeCount = post.Likes
    return nil
}

// AddComment appends a comment to a post. Content is trimmed; blank content
// fails with ErrEmptyComment, a missing post with ErrNotFound.
func (s *EngagementStore) AddComment(postID, userID uint, content string) (*models.Comment, error) {
    content = strings.TrimSpace(content)
    if content == "" {
        return nil, ErrEmptyComment
    }

    var comment models.Comment
    err := s.db.Transaction(func(tx *gorm.DB) error {
        var post models.Post
        if err := tx.Select("id").First(&post, postID).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrNotFound
            }
            return err
        }

        comment = models.Comment{
            PostID:    postID,
            UserID:    userID,
            Content:   content,
            CreatedAt: time.Now().UTC(),
        }
        return tx.Create(&comment).Error
    })
    if err != nil {
        return nil, err
    }
    return &comment, nil
}

// ListComments returns a post's comments oldest first, authors preloaded.
// Chronological reading order, the inverse of the feed's post ordering.
func (s *EngagementStore) ListComments(postID uint) ([]models.Comment, error) {
    var comments []models.Comment
    if err := s.db.Where("post_id = ?", postID).Preload("User").
        Order("created_at ASC").Find(&comments).Error; err != nil {
        return nil, err
    }
    return comments, nil
}

// LikedPostIDs returns the set of post IDs the user has liked, for the feed's
// per-viewer membership flag.
func (s *EngagementStore) LikedPostIDs(userID uint) (map[uint]bool, error) {
    var ids []uint
    if err := s.db.Model(&models.Like{}).Where("user_id = ?", userID).
        Pluck("post_id", &ids).Error; err != nil {
        return nil, err
    }
    liked := make(map[uint]bool, len(ids))
    for _, id := range ids {
        liked[id] = true
    }
    return liked, nil
}

// DeleteByPost removes every like and comment referencing a post. Idempotent;
// db is the handle the deletes run on, so the post-deletion cascade can pass
// its transaction in.
func (s *EngagementStore) DeleteByPost(db *gorm.DB, postID uint) error {
    if err := db.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
        return err
    }
    return db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
