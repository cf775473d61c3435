package adaptor

import (
	"encoding/json"
	"net/http"

	"member-directory/internal/data/entity"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/internal/usecase"
	"member-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	approval usecase.ApprovalService
	auth     usecase.AdminAuthService
	log      *zap.Logger
}

func NewAdminHandler(approval usecase.ApprovalService, auth usecase.AdminAuthService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		approval: approval,
		auth:     auth,
		log:      log,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "admin login")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, err, "admin logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// PendingUsers handles GET /api/admin/pending-users?page=&per_page=
func (h *AdminHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.NewPaginatedRequest(
		utils.ParseInt(query.Get("page"), 1),
		utils.ParseInt(query.Get("per_page"), 20),
	)

	users, err := h.approval.ListPendingUsers(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, err, "list pending users")
		return
	}

	utils.ResponseSuccess(w, "Pending users retrieved successfully", users)
}

// ApproveUser handles PUT /api/admin/approve-user/{id}
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.decideUser(w, r, entity.DecisionApprove)
}

// RejectUser handles PUT /api/admin/reject-user/{id}
func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	h.decideUser(w, r, entity.DecisionReject)
}

func (h *AdminHandler) decideUser(w http.ResponseWriter, r *http.Request, decision entity.Decision) {
	id := chi.URLParam(r, "id")

	var (
		user    *response.MemberResponse
		err     error
		message string
	)
	if decision == entity.DecisionApprove {
		user, err = h.approval.ApproveUser(r.Context(), id)
		message = "User approved successfully"
	} else {
		user, err = h.approval.RejectUser(r.Context(), id)
		message = "User rejected successfully"
	}
	if err != nil {
		h.handleServiceError(w, err, string(decision)+" user")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response.UserDecisionResponse{
		Success: true,
		Message: message,
		User:    *user,
	})
}

// UpdateRequests handles GET /api/admin/update-requests?status=&page=&per_page=
func (h *AdminHandler) UpdateRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := request.UpdateRequestFilter{
		PaginatedRequest: request.NewPaginatedRequest(
			utils.ParseInt(query.Get("page"), 1),
			utils.ParseInt(query.Get("per_page"), 20),
		),
		Status: query.Get("status"),
	}

	requests, err := h.approval.ListUpdateRequests(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, err, "list update requests")
		return
	}

	utils.ResponseSuccess(w, "Update requests retrieved successfully", requests)
}

// ApproveUpdate handles PUT /api/admin/approve-update/{id}
func (h *AdminHandler) ApproveUpdate(w http.ResponseWriter, r *http.Request) {
	h.resolveUpdate(w, r, entity.DecisionApprove, "Update request approved")
}

// RejectUpdate handles PUT /api/admin/reject-update/{id}
func (h *AdminHandler) RejectUpdate(w http.ResponseWriter, r *http.Request) {
	h.resolveUpdate(w, r, entity.DecisionReject, "Update request rejected")
}

func (h *AdminHandler) resolveUpdate(w http.ResponseWriter, r *http.Request, decision entity.Decision, message string) {
	resp, err := h.approval.ResolveUpdateRequest(r.Context(), chi.URLParam(r, "id"), decision)
	if err != nil {
		h.handleServiceError(w, err, string(decision)+" update request")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response.RequestDecisionResponse{
		Success: true,
		Message: message,
		Request: *resp,
	})
}

// NotifyNewUser handles POST /api/admin/notify-new-user
func (h *AdminHandler) NotifyNewUser(w http.ResponseWriter, r *http.Request) {
	var req request.NotifyNewUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.approval.NotifyNewUser(r.Context(), req.UserID); err != nil {
		h.handleServiceError(w, err, "notify new user")
		return
	}

	utils.ResponseSuccess(w, "Notification sent", nil)
}

// UserActivity handles GET /api/admin/users/{id}/activity?limit=
func (h *AdminHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)

	events, err := h.approval.UserActivity(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.handleServiceError(w, err, "get user activity")
		return
	}

	utils.ResponseSuccess(w, "Activity retrieved successfully", events)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	respondError(w, h.log, err, operation)
}
