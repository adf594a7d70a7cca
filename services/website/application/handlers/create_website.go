package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
)

// CreateWebsiteHandler handles POST /website/create-website.
type CreateWebsiteHandler struct {
	svc       *appsvcs.Services
	errs      errhttp.Writer
	maxMemory int64
}

// NewCreateWebsiteHandler returns a CreateWebsiteHandler. maxMemory bounds the
// multipart bytes held in memory; larger parts spill to temp files.
func NewCreateWebsiteHandler(svc *appsvcs.Services, errs errhttp.Writer, maxMemory int64) *CreateWebsiteHandler {
	return &CreateWebsiteHandler{svc: svc, errs: errs, maxMemory: maxMemory}
}

// Execute creates the website template for a registered company.
//
//	@Summary		Create website template
//	@Description	Creates an inactive template. about, products and testimonials are JSON strings; images are file parts.
//	@Tags			website
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			companyName			formData	string	true	"Company name; the search key is derived from it"
//	@Param			title				formData	string	true	"Hero title"
//	@Param			subTitle			formData	string	true	"Hero subtitle"
//	@Param			websiteEmail		formData	string	true	"Contact email"
//	@Param			phone				formData	string	true	"Contact phone"
//	@Param			about				formData	string	true	"JSON array of paragraphs"
//	@Param			products			formData	string	false	"JSON array of products"
//	@Param			testimonials		formData	string	false	"JSON array of testimonials"
//	@Param			companyLogo			formData	file	false	"Logo (max 1)"
//	@Param			heroImages			formData	file	false	"Hero images (max 5)"
//	@Param			gallery				formData	file	false	"Gallery images (max 40)"
//	@Success		201					{object}	TemplateResponse
//	@Success		207					{object}	TemplateResponse	"Created, but link registration failed"
//	@Failure		400					{object}	httpx.MessageResponse
//	@Failure		401					{object}	httpx.MessageResponse
//	@Router			/website/create-website [post]
func (h *CreateWebsiteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	form, err := parseTemplateForm(r, h.maxMemory)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	in, err := form.createInput()
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	res, err := h.svc.Builder.Create(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Warning != "" {
		status = http.StatusMultiStatus
	}
	httpx.JSON(w, status, TemplateResponse{
		Message:  "Template created",
		Template: res.Template,
		Warning:  res.Warning,
	})
}
