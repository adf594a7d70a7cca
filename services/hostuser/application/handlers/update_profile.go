package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	pkgvalidator "github.com/wono/hostpanel/pkg/validator"
	appsvcs "github.com/wono/hostpanel/services/hostuser/application/services"
	"github.com/wono/hostpanel/services/hostuser/domain/models"
)

// UpdateProfileRequest is the request body for PATCH /api/profile/update-profile/{userId}.
// Omitted or empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name            *string  `json:"name"            validate:"omitempty,notblank,max=120" example:"Asha Kulkarni"`
	Designation     *string  `json:"designation"     validate:"omitempty,max=120"          example:"Community Manager"`
	Phone           *string  `json:"phone"           validate:"omitempty,phone"            example:"+91 98765 43210"`
	LinkedInProfile *string  `json:"linkedInProfile" validate:"omitempty,url"              example:"https://www.linkedin.com/in/asha"`
	Languages       []string `json:"languages"       validate:"omitempty,dive,max=40"      example:"English,Hindi"`
	Address         *string  `json:"address"         validate:"omitempty,max=500"          example:"Panaji, Goa"`
	ProfileImage    *string  `json:"profileImage"    validate:"omitempty,url"              example:"https://assets.wono.co/u/asha.jpg"`
	IsActive        *bool    `json:"isActive"        example:"true"`
} // @name UpdateProfileRequest

// ProfileResponse wraps the updated host user.
type ProfileResponse struct {
	Message string           `json:"message" example:"Profile updated successfully."`
	Data    *models.HostUser `json:"data"`
} // @name ProfileResponse

// UpdateProfileHandler handles PATCH /api/profile/update-profile/{userId}.
type UpdateProfileHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

func NewUpdateProfileHandler(svc *appsvcs.Services, errs errhttp.Writer) *UpdateProfileHandler {
	return &UpdateProfileHandler{svc: svc, errs: errs}
}

// Execute applies a partial profile update for the signed-in user.
//
//	@Summary		Update profile
//	@Description	Partially updates the signed-in host user's profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			userId	path		string					true	"Host user id"
//	@Param			request	body		UpdateProfileRequest	true	"Profile fields"
//	@Success		200		{object}	ProfileResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		401		{object}	httpx.MessageResponse
//	@Failure		403		{object}	httpx.MessageResponse
//	@Failure		404		{object}	httpx.MessageResponse
//	@Router			/api/profile/update-profile/{userId} [patch]
func (h *UpdateProfileHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizeUser(w, r, h.errs)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateProfileRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.Profile.UpdateProfile(r.Context(), id, models.ProfileUpdate{
		Name:            req.Name,
		Designation:     req.Designation,
		Phone:           req.Phone,
		LinkedInProfile: req.LinkedInProfile,
		Languages:       req.Languages,
		Address:         req.Address,
		ProfileImage:    req.ProfileImage,
		IsActive:        req.IsActive,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ProfileResponse{Message: "Profile updated successfully.", Data: user})
}
