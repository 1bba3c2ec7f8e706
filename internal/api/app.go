package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/aqevia/internal/config"
	"github.com/npezzotti/aqevia/internal/server"
	"github.com/npezzotti/aqevia/internal/world"
)

type MudApp struct {
	log            *log.Logger
	world          *world.Service
	srv            *http.Server
	gs             *server.GameServer
	signingKey     []byte
	allowedOrigins []string
}

func NewMudApp(mux *http.ServeMux, logger *log.Logger, gs *server.GameServer, w *world.Service, cfg *config.Config) *MudApp {
	s := &MudApp{
		log:            logger,
		world:          w,
		gs:             gs,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("GET /readyz", s.readyCheck)

	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.HandleFunc("/api/account", s.authMiddleware(s.account))

	mux.HandleFunc("GET /api/characters", s.authMiddleware(s.listCharacters))
	mux.HandleFunc("POST /api/characters", s.authMiddleware(s.createCharacter))
	mux.HandleFunc("GET /api/characters/{id}", s.authMiddleware(s.getCharacter))
	mux.HandleFunc("PATCH /api/characters/{id}", s.authMiddleware(s.updateCharacter))
	mux.HandleFunc("DELETE /api/characters/{id}", s.authMiddleware(s.deleteCharacter))
	mux.HandleFunc("POST /api/characters/{id}/move", s.authMiddleware(s.move))
	mux.HandleFunc("POST /api/characters/{id}/pickup", s.authMiddleware(s.pickup))
	mux.HandleFunc("POST /api/characters/{id}/drop", s.authMiddleware(s.drop))
	mux.HandleFunc("GET /api/characters/{id}/look", s.authMiddleware(s.look))

	mux.HandleFunc("GET /api/rooms", s.authMiddleware(s.listRooms))
	mux.HandleFunc("POST /api/rooms", s.authMiddleware(s.createRoom))
	mux.HandleFunc("GET /api/rooms/{id}", s.authMiddleware(s.getRoom))
	mux.HandleFunc("PATCH /api/rooms/{id}", s.authMiddleware(s.updateRoom))
	mux.HandleFunc("DELETE /api/rooms/{id}", s.authMiddleware(s.deleteRoom))
	mux.HandleFunc("POST /api/rooms/{id}/exits", s.authMiddleware(s.addExit))
	mux.HandleFunc("DELETE /api/rooms/{id}/exits/{name}", s.authMiddleware(s.removeExit))

	mux.HandleFunc("GET /api/items", s.authMiddleware(s.listItems))
	mux.HandleFunc("POST /api/items", s.authMiddleware(s.createItem))
	mux.HandleFunc("GET /api/items/{id}", s.authMiddleware(s.getItem))
	mux.HandleFunc("PATCH /api/items/{id}", s.authMiddleware(s.updateItem))
	mux.HandleFunc("DELETE /api/items/{id}", s.authMiddleware(s.deleteItem))

	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)
	h = handlers.LoggingHandler(logger.Writer(), h)

	s.srv = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return s
}

func (s *MudApp) Start() error {
	s.log.Printf("starting server on %s\n", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *MudApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
