package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	pkgvalidator "github.com/wono/hostpanel/pkg/validator"
	appsvcs "github.com/wono/hostpanel/services/hostuser/application/services"
)

// ChangePasswordRequest is the request body for PATCH /api/profile/change-password/{userId}.
// Field rules are enforced by the service so clients get its messages.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" example:"old-secret"`
	NewPassword     string `json:"newPassword"     example:"brand-new-secret"`
	ConfirmPassword string `json:"confirmPassword" example:"brand-new-secret"`
} // @name ChangePasswordRequest

// ChangePasswordHandler handles PATCH /api/profile/change-password/{userId}.
type ChangePasswordHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

func NewChangePasswordHandler(svc *appsvcs.Services, errs errhttp.Writer) *ChangePasswordHandler {
	return &ChangePasswordHandler{svc: svc, errs: errs}
}

// Execute replaces the signed-in user's password.
//
//	@Summary		Change password
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			userId	path		string					true	"Host user id"
//	@Param			request	body		ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		403		{object}	httpx.MessageResponse
//	@Failure		404		{object}	httpx.MessageResponse
//	@Router			/api/profile/change-password/{userId} [patch]
func (h *ChangePasswordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizeUser(w, r, h.errs)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ChangePasswordRequest](w, r)
	if !ok {
		return
	}
	err := h.svc.Profile.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "Password changed successfully."})
}
