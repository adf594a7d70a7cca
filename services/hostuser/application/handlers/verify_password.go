package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	pkgvalidator "github.com/wono/hostpanel/pkg/validator"
	appsvcs "github.com/wono/hostpanel/services/hostuser/application/services"
)

// VerifyPasswordRequest is the request body for PATCH /api/profile/verify-password/{userId}.
type VerifyPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" example:"old-secret"`
} // @name VerifyPasswordRequest

// VerifyPasswordHandler handles PATCH /api/profile/verify-password/{userId}.
type VerifyPasswordHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

func NewVerifyPasswordHandler(svc *appsvcs.Services, errs errhttp.Writer) *VerifyPasswordHandler {
	return &VerifyPasswordHandler{svc: svc, errs: errs}
}

// Execute checks the signed-in user's current password.
//
//	@Summary		Verify password
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			userId	path		string					true	"Host user id"
//	@Param			request	body		VerifyPasswordRequest	true	"Current password"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		403		{object}	httpx.MessageResponse
//	@Failure		404		{object}	httpx.MessageResponse
//	@Router			/api/profile/verify-password/{userId} [patch]
func (h *VerifyPasswordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizeUser(w, r, h.errs)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[VerifyPasswordRequest](w, r)
	if !ok {
		return
	}
	if err := h.svc.Profile.VerifyPassword(r.Context(), id, req.CurrentPassword); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "Password verified."})
}
