package http

import (
	"net/http"
	"strconv"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
	"github.com/go-chi/chi/v5"
)

// updateRole changes another account's role. The adminOnly middleware has
// already verified the caller; the service re-checks the role and rejects
// self-targeting.
func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Msg("no principal in context on admin route")
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("non-numeric user id in route")
		utils.WriteJSON(w, models.ErrorResponse{Message: "invalid user id"}, http.StatusBadRequest)
		return
	}

	var req models.UpdateRoleRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	updated, err := h.services.AuthService.UpdateRole(ctx, principal, targetUserID, req.Role, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "role updated",
		Data:    updated.Profile(),
	}, http.StatusOK)
}

func (h *Handler) getAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.services.AuthService.GetAllUsers(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "users retrieved",
		Data:    profiles,
	}, http.StatusOK)
}

// userLogs lists a user's activity entries, newest first. Optional query
// parameters "action", "outcome" and "limit" narrow the result.
func (h *Handler) userLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Err(err).Msg("non-numeric user id in route")
		utils.WriteJSON(w, models.ErrorResponse{Message: "invalid user id"}, http.StatusBadRequest)
		return
	}

	filter := models.ActivityFilter{
		UserID:  userID,
		Action:  r.URL.Query().Get("action"),
		Outcome: r.URL.Query().Get("outcome"),
	}
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.ParseUint(rawLimit, 10, 64)
		if err != nil || limit == 0 {
			utils.WriteJSON(w, models.ErrorResponse{Message: "invalid limit"}, http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	entries, err := h.services.ActivityService.List(ctx, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "activity retrieved",
		Data:    entries,
	}, http.StatusOK)
}
