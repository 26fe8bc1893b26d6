package httpapi

import (
	"github.com/reliefline/server/internal/services"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Profiles *services.ProfileService
}
