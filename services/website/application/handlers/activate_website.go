package handlers

import (
	"net/http"

	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/httpx"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
)

// ActivateWebsiteHandler handles PATCH /website/activate-website.
type ActivateWebsiteHandler struct {
	svc  *appsvcs.Services
	errs errhttp.Writer
}

func NewActivateWebsiteHandler(svc *appsvcs.Services, errs errhttp.Writer) *ActivateWebsiteHandler {
	return &ActivateWebsiteHandler{svc: svc, errs: errs}
}

// Execute publishes a template. Unknown search keys also succeed.
//
//	@Summary	Activate website template
//	@Tags		website
//	@Produce	json
//	@Param		searchKey	query		string	true	"Template search key"
//	@Success	200			{object}	httpx.MessageResponse
//	@Failure	401			{object}	httpx.MessageResponse
//	@Router		/website/activate-website [patch]
func (h *ActivateWebsiteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Visibility.Activate(r.Context(), r.URL.Query().Get("searchKey")); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "Website activated successfully"})
}
