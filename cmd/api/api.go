package api

import (
	"log"
	"net/http"
	"os"

	"github.com/TOHSTUDIO3/Social-media/cmd/utils"
	"github.com/TOHSTUDIO3/Social-media/service/dashboard"
	"github.com/TOHSTUDIO3/Social-media/service/feed"
	"github.com/TOHSTUDIO3/Social-media/service/user"
	"github.com/TOHSTUDIO3/Social-media/store"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	identity := store.NewIdentityStore(s.db)
	engagement := store.NewEngagementStore(s.db)
	content := store.NewContentStore(s.db, utils.MediaStorage{}, engagement)
	assembler := store.NewFeedAssembler(identity, content, engagement)

	userHandler := user.NewHandler(identity, assembler)
	userHandler.RegisterRoutes(subrouter)

	feedHandler := feed.NewHandler(content, engagement, assembler)
	feedHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}
