package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// AdminHandler serves the cross-user administration endpoints.
type AdminHandler struct {
	adminService       *service.AdminService
	userService        *service.UserService
	maintenanceService *service.MaintenanceService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *service.AdminService, userService *service.UserService, maintenanceService *service.MaintenanceService) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		userService:        userService,
		maintenanceService: maintenanceService,
	}
}

// Overview returns every user, account, holding, transaction and asset.
//
// Endpoint: GET /api/admin/overview
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminService.Overview(r.Context(), principal(r))
	if err != nil {
		respondError(w, r, err, "failed to build overview")
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// Users handles GET requests for all users.
//
// Endpoint: GET /api/admin/user
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers(r.Context(), principal(r))
	if err != nil {
		respondError(w, r, err, "failed to retrieve users")
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// DeleteUser removes a user and everything they own.
//
// Endpoint: DELETE /api/admin/user/{uuid}
// Response: 200 OK with UserDeletion counts
// Error: 400 Bad Request if an admin tries to delete themselves
// Error: 404 Not Found if the user doesn't exist
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.userService.DeleteUser(r.Context(), principal(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondError(w, r, err, "failed to delete user")
		return
	}

	response.RespondJSON(w, http.StatusOK, deleted)
}

// Audit runs the integrity audit on demand.
//
// Endpoint: POST /api/admin/audit
// Response: 200 OK with AuditReport
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if !principal(r).IsAdmin() {
		respondError(w, r, apperrors.ErrForbidden, "admin role required")
		return
	}

	report, err := h.maintenanceService.Audit(r.Context())
	if err != nil {
		respondError(w, r, err, "failed to run audit")
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
