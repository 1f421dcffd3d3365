package store

import (
    "errors"
    "strings"
    "time"

    "github.com/TOHSTUDIO3/Social-media/cmd/models"
    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"
)

// IdentityStore owns user records and credential verification. Accounts are
// append-only: there are no update or delete operations.
type IdentityStore struct {
    db *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
    return &IdentityStore{db: db}
}

// Register creates a user with a freshly hashed credential. Usernames are
// matched case-sensitively; a taken one fails with ErrDuplicateUsername.
func (s *IdentityStore) Register(username, password string) (*models.User, error) {
    username = strings.TrimSpace(username)

    hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return nil, err
    }

    user := models.User{
        Username:     username,
        PasswordHash: string(hash),
        CreatedAt:    time.Now().UTC(),
    }
    if err := s.db.Create(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrDuplicatedKey) {
            return nil, ErrDuplicateUsername
        }
        return nil, err
    }
    return &user, nil
}

// Authenticate verifies a username/password pair against the stored hash.
// An unknown username and a wrong password are indistinguishable to the
// caller.
func (s *IdentityStore) Authenticate(username, password string) (*models.User, error) {
    username = strings.TrimSpace(username)

    var user models.User
    err := s.db.Where("username = ?", username).First(&user).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, ErrInvalidCredentials
    }
    if err != nil {
        return nil, err
    }

    if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
        return nil, ErrInvalidCredentials
    }
    return &user, nil
}

func (s *IdentityStore) Lookup(userID uint) (*models.User, error) {
    var user models.User
    if err := s.db.First(&user, userID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &user, nil
}

func (s *IdentityStore) LookupByUsername(username string) (*models.User, error) {
    var user models.User
    if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &user, nil
}
