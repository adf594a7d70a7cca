package handlers

import (
	"github.com/wono/hostpanel/services/website/domain/models"
)

// TemplateResponse is returned by create and edit.
type TemplateResponse struct {
	Message  string           `json:"message"           example:"Template created"`
	Template *models.Template `json:"template"`
	// Warning is set when the template was saved but a follow-up step failed.
	Warning string `json:"warning,omitempty" example:"Failed to add link. Check if the company is listed in Nomads."`
} // @name TemplateResponse
