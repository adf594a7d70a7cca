package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
)

// EditWebsiteHandler handles PATCH /website/edit-website.
type EditWebsiteHandler struct {
	svc       *appsvcs.Services
	errs      errhttp.Writer
	maxMemory int64
}

func NewEditWebsiteHandler(svc *appsvcs.Services, errs errhttp.Writer, maxMemory int64) *EditWebsiteHandler {
	return &EditWebsiteHandler{svc: svc, errs: errs, maxMemory: maxMemory}
}

// Execute merges the request into the stored template.
//
//	@Summary		Edit website template
//	@Description	Absent fields are unchanged. heroImageIds and galleryImageIds are JSON arrays of kept image ids.
//	@Description	A testimonial with "imageId": null loses its image. revision enables optimistic concurrency.
//	@Tags			website
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			companyName			formData	string	true	"Company name"
//	@Param			revision			formData	integer	false	"Revision the client last read"
//	@Param			heroImageIds		formData	string	false	"JSON array of kept hero image ids"
//	@Param			galleryImageIds		formData	string	false	"JSON array of kept gallery image ids"
//	@Param			companyLogoId		formData	string	false	"Kept logo id; empty clears"
//	@Param			products			formData	string	false	"JSON array of products"
//	@Param			testimonials		formData	string	false	"JSON array of testimonials"
//	@Success		200					{object}	TemplateResponse
//	@Failure		400					{object}	httpx.MessageResponse
//	@Failure		404					{object}	httpx.MessageResponse
//	@Failure		409					{object}	httpx.MessageResponse
//	@Router			/website/edit-website [patch]
func (h *EditWebsiteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	form, err := parseTemplateForm(r, h.maxMemory)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	in, err := form.editInput()
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	tpl, err := h.svc.Builder.Edit(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, TemplateResponse{Message: "Template updated successfully", Template: tpl})
}
