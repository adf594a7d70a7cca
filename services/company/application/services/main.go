package services

import (
	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/services/company/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Company *CompanyService
}

// New wires the company services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Company: NewCompanyService(postgres.NewCompanyRepository(a.Db)),
	}
}
