package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/TOHSTUDIO3/Social-media/cmd/models"
	"github.com/TOHSTUDIO3/Social-media/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	Posts            int64 `json:"posts"`
	LikesReceived    int64 `json:"likes_received"`
	CommentsReceived int64 `json:"comments_received"`
}

// RegisterRoutes registers dashboard-related routes with Gorilla Mux
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", utils.AuthMiddleware(h.GetDashboardStats)).Methods("GET")
}

// GetDashboardStats returns the caller's engagement summary: how many posts
// they have published and how many likes and comments those posts received.
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var stats DashboardStats

	if err := h.db.Model(&models.Post{}).Where("user_id = ?", userID).
		Count(&stats.Posts).Error; err != nil {
		http.Error(w, "Error counting posts", http.StatusInternalServerError)
		return
	}

	if err := h.db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ?", userID).
		Count(&stats.LikesReceived).Error; err != nil {
		http.Error(w, "Error counting likes", http.StatusInternalServerError)
		return
	}

	if err := h.db.Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.user_id = ?", userID).
		Count(&stats.CommentsReceived).Error; err != nil {
		http.Error(w, "Error counting comments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
