package services

import (
	"github.com/wono/hostpanel/pkg/app"
	"github.com/wono/hostpanel/services/hostuser/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Profile *ProfileService
}

// New wires the host user services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Profile: NewProfileService(postgres.NewHostUserRepository(a.Db), a.Logger),
	}
}
