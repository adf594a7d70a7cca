package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/repositories"
)

// GetWebsiteHandler serves the public template lookups.
type GetWebsiteHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

func NewGetWebsiteHandler(svc *appsvcs.Services, errs errhttp.Writer) *GetWebsiteHandler {
	return &GetWebsiteHandler{svc: svc, errs: errs}
}

// ByCompany returns the template for a company name or search key.
//
//	@Summary	Get website template
//	@Tags		website
//	@Produce	json
//	@Param		companyName	path		string	true	"Company name or search key"
//	@Success	200			{object}	models.Template	"The template, or [] when none exists"
//	@Router		/website/get-website/{companyName} [get]
func (h *GetWebsiteHandler) ByCompany(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, chi.URLParam(r, "companyName"), repositories.AnyVisibility)
}

// InactiveByCompany returns an unpublished template.
//
//	@Summary	Get inactive website template
//	@Tags		website
//	@Produce	json
//	@Param		company	query		string	false	"Company name or search key"
//	@Success	200		{object}	models.Template	"The template, or [] when none exists"
//	@Router		/website/get-inactive-website [get]
func (h *GetWebsiteHandler) InactiveByCompany(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "company")
	if name == "" {
		name = r.URL.Query().Get("company")
	}
	h.single(w, r, name, repositories.InactiveOnly)
}

// Active lists published templates.
//
//	@Summary	List active website templates
//	@Tags		website
//	@Produce	json
//	@Success	200	{array}	models.Template
//	@Router		/website/get-websites [get]
func (h *GetWebsiteHandler) Active(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Visibility.ListActive(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Inactive lists unpublished templates.
//
//	@Summary	List inactive website templates
//	@Tags		website
//	@Produce	json
//	@Success	200	{array}	models.Template
//	@Router		/website/get-inactive-websites [get]
func (h *GetWebsiteHandler) Inactive(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Visibility.ListInactive(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *GetWebsiteHandler) single(w http.ResponseWriter, r *http.Request, name string, v repositories.Visibility) {
	tpl, err := h.svc.Visibility.Get(r.Context(), name, v)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		httpx.JSON(w, http.StatusOK, []any{})
		return
	}
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}
