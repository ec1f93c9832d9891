package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/giogio-dev/todo-service/internal/auth"
	"github.com/giogio-dev/todo-service/internal/config"
	"github.com/giogio-dev/todo-service/internal/database"
	"github.com/giogio-dev/todo-service/internal/service"
)

const apiVersion = "1.0.0"

type Server struct {
	cfg         config.Config
	todoService service.TodoService
	db          database.Service
	auth        *auth.Manager
	startedAt   time.Time
}

// NewServer wires the HTTP server around the injected dependencies.
func NewServer(cfg config.Config, todoService service.TodoService, dbService database.Service, authManager *auth.Manager) *http.Server {
	appServer := &Server{
		cfg:         cfg,
		todoService: todoService,
		db:          dbService,
		auth:        authManager,
		startedAt:   time.Now(),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
