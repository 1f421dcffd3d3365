package utils

import (
    "fmt"
    "io"
    "mime/multipart"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/TOHSTUDIO3/Social-media/cmd/models"
    "github.com/google/uuid"
)

const (
    MaxMediaSize     = 50 << 20 // 50 MB
    DefaultMediaPath = "uploads/media"
)

var imageExtensions = map[string]bool{
    ".png":  true,
    ".jpg":  true,
    ".jpeg": true,
    ".gif":  true,
}

var videoExtensions = map[string]bool{
    ".mp4": true,
    ".mov": true,
    ".avi": true,
}

// MediaDir is where uploads live, overridable through UPLOAD_DIR.
func MediaDir() string {
    if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
        return dir
    }
    return DefaultMediaPath
}

// ClassifyMedia maps a filename's extension to its media type tag. Anything
// outside the image and video sets is rejected here, before a post row ever
// sees it.
func ClassifyMedia(filename string) (string, error) {
    ext := strings.ToLower(filepath.Ext(filename))
    switch {
    case imageExtensions[ext]:
        return models.MediaTypeImage, nil
    case videoExtensions[ext]:
        return models.MediaTypeVideo, nil
    default:
        return "", fmt.Errorf("invalid file type: %s", ext)
    }
}

// SaveMedia persists an upload under a generated unique filename and returns
// the stored path together with its media type tag.
func SaveMedia(file multipart.File, header *multipart.FileHeader) (string, string, error) {
    if header.Size > MaxMediaSize {
        return "", "", fmt.Errorf("file size exceeds maximum limit of %d MB", MaxMediaSize/(1<<20))
    }

    mediaType, err := ClassifyMedia(header.Filename)
    if err != nil {
        return "", "", err
    }

    if err := os.MkdirAll(MediaDir(), 0755); err != nil {
        return "", "", fmt.Errorf("failed to create upload directory: %v", err)
    }

    ext := strings.ToLower(filepath.Ext(header.Filename))
    filename := fmt.Sprintf("%s-%s%s",
        time.Now().Format("20060102"),
        uuid.New().String(),
        ext,
    )
    filePath := filepath.Join(MediaDir(), filename)

    dst, err := os.Create(filePath)
    if err != nil {
        return "", "", fmt.Errorf("failed to create file: %v", err)
    }
    defer dst.Close()

    if _, err := io.Copy(dst, file); err != nil {
        return "", "", fmt.Errorf("failed to save file: %v", err)
    }

    return filename, mediaType, nil
}


func DeleteMedia(path string) error {

    filename := filepath.Base(path)
    filePath := filepath.Join(MediaDir(), filename)

    if _, err := os.Stat(filePath); os.IsNotExist(err) {
        return nil
    }

    return os.Remove(filePath)
}

// MediaStorage adapts the filesystem helpers to the content store's cleanup
// hook.
type MediaStorage struct{}

func (MediaStorage) Remove(path string) error {
    return DeleteMedia(path)
}
