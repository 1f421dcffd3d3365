package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TOHSTUDIO3/Social-media/cmd/utils"
	"github.com/TOHSTUDIO3/Social-media/store"
	"github.com/gorilla/mux"
)

type Handler struct {
	content    *store.ContentStore
	engagement *store.EngagementStore
	assembler  *store.FeedAssembler
}

func NewHandler(content *store.ContentStore, engagement *store.EngagementStore, assembler *store.FeedAssembler) *Handler {
	return &Handler{content: content, engagement: engagement, assembler: assembler}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Feed routes
	router.HandleFunc("/feed", utils.AuthMiddleware(h.GetFeed)).Methods("GET")

	// Post routes
	router.HandleFunc("/posts", utils.AuthMiddleware(h.CreatePost)).Methods("POST")
	router.HandleFunc("/posts/{id}", h.GetPost).Methods("GET")
	router.HandleFunc("/posts/{id}", utils.AuthMiddleware(h.DeletePost)).Methods("DELETE")

	// Like routes
	router.HandleFunc("/posts/{id}/like", utils.AuthMiddleware(h.ToggleLike)).Methods("POST")

	// Comment routes
	router.HandleFunc("/posts/{id}/comments", utils.AuthMiddleware(h.AddComment)).Methods("POST")
	router.HandleFunc("/posts/{id}/comments", h.GetComments).Methods("GET")

	// Uploaded media
	router.HandleFunc("/media/{filename}", h.ServeMedia).Methods("GET")
}

// GetFeed returns the viewer's home feed.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.assembler.BuildHomeFeed(viewerID)
	if err != nil {
		http.Error(w, "Error retrieving feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// CreatePost publishes a post with optional text and an optional single media
// attachment. The attachment is validated and stored before the row insert.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(utils.MaxMediaSize); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	content := r.FormValue("content")

	var media *store.MediaRef
	file, header, err := r.FormFile("media_file")
	switch {
	case err == nil:
		defer file.Close()
		path, mediaType, err := utils.SaveMedia(file, header)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		media = &store.MediaRef{Path: path, Type: mediaType}
	case errors.Is(err, http.ErrMissingFile):
		// Text-only post.
	default:
		http.Error(w, "Error reading media file", http.StatusBadRequest)
		return
	}

	post, err := h.content.CreatePost(userID, content, media)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPost) {
			http.Error(w, "Post needs text or media", http.StatusBadRequest)
			return
		}
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// GetPost retrieves a single post.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.content.GetPost(uint(postID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error retrieving post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// DeletePost deletes a post and its associated likes and comments.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.content.DeletePost(uint(postID), userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, store.ErrForbidden):
			http.Error(w, "Not the post owner", http.StatusForbidden)
		default:
			http.Error(w, "Error deleting post", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Post deleted successfully",
	})
}

// ToggleLike flips the caller's like on a post and returns the new state with
// the authoritative counter.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	result, err := h.engagement.ToggleLike(userID, uint(postID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error toggling like", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// AddComment adds a comment to a post
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.engagement.AddComment(uint(postID), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyComment):
			http.Error(w, "Comment cannot be empty", http.StatusBadRequest)
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		default:
			http.Error(w, "Error creating comment", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

// GetComments retrieves comments for a post, oldest first.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := h.engagement.ListComments(uint(postID))
	if err != nil {
		http.Error(w, "Error retrieving comments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

// ServeMedia serves an uploaded media file by its stored filename.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filename := vars["filename"]

	// Basic security check for directory traversal
	if containsDotDot(filename) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	mediaPath := filepath.Join(utils.MediaDir(), filepath.Clean(filename))

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		http.Error(w, "Media not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Type", getContentType(mediaPath))

	http.ServeFile(w, r, mediaPath)
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }

// Helper function to determine content type
func getContentType(filename string) string {
	ext := filepath.Ext(filename)
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}
