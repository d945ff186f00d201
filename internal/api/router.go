package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/honlab/equiptrack/internal/auth"
	"github.com/honlab/equiptrack/internal/db"
	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/metrics"
	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/retention"
)

// Config holds the dependencies of the API.
type Config struct {
	DB        *sql.DB
	Service   *inventory.Service
	Signer    *auth.Signer
	Retention retention.Policy
	// CronSecret guards the cleanup endpoint. If empty, an admin token is
	// required instead.
	CronSecret string
	// Metrics is served on /metrics when set.
	Metrics *metrics.Metrics
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: cfg.DB, Signer: cfg.Signer}
	usersHandler := &UsersHandler{DB: cfg.DB}
	roomsHandler := &RoomsHandler{Service: cfg.Service}
	equipmentHandler := &EquipmentHandler{Service: cfg.Service, Retention: cfg.Retention}
	transfersHandler := &TransfersHandler{Service: cfg.Service}
	cronHandler := &CronHandler{Service: cfg.Service, Retention: cfg.Retention}

	authMW := AuthMiddleware(cfg.Signer, cfg.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)
	cronMW := CronMiddleware(cfg.CronSecret, func(next http.Handler) http.Handler {
		return authMW(requireAdmin(next))
	})

	read := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireManager(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.VerifySchema(r.Context(), cfg.DB); err != nil {
			slog.Error("health check failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", read(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", read(authHandler.Logout))
	mux.Handle("GET /api/auth/me", read(authHandler.Me))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Rooms (all roles).
	mux.Handle("GET /api/rooms", read(roomsHandler.List))
	mux.Handle("GET /api/rooms/{id}", read(roomsHandler.Get))

	// Equipment: read (all roles), write (manager+).
	mux.Handle("GET /api/equipment", read(equipmentHandler.List))
	mux.Handle("POST /api/equipment", write(equipmentHandler.Create))
	mux.Handle("GET /api/equipment/stats", read(equipmentHandler.Stats))
	mux.Handle("GET /api/equipment/deleted", read(equipmentHandler.ListDeleted))
	mux.Handle("POST /api/equipment/transfer", write(transfersHandler.TransferBatch))
	mux.Handle("POST /api/equipment/delete", write(equipmentHandler.DeleteBatch))
	mux.Handle("POST /api/equipment/status", write(equipmentHandler.ChangeStatus))
	mux.Handle("GET /api/equipment/{id}", read(equipmentHandler.Get))
	mux.Handle("PUT /api/equipment/{id}", write(equipmentHandler.Edit))
	mux.Handle("POST /api/equipment/{id}/transfer", write(transfersHandler.Transfer))
	mux.Handle("POST /api/equipment/{id}/delete", write(equipmentHandler.Delete))
	mux.Handle("GET /api/equipment/{id}/history", read(transfersHandler.History))
	mux.Handle("PUT /api/equipment/{id}/image", write(equipmentHandler.UploadImage))
	mux.Handle("GET /api/equipment/{id}/image", read(equipmentHandler.GetImage))

	// Transfer log (all roles).
	mux.Handle("GET /api/transfers", read(transfersHandler.List))

	// Scheduled cleanup.
	mux.Handle("POST /api/cron/cleanup", cronMW(http.HandlerFunc(cronHandler.Cleanup)))

	return mux
}
