package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/auth"
	"github.com/rogerio-castellano/stockly/internal/repo"
	"github.com/rogerio-castellano/stockly/internal/status"
)

// Deps holds everything the handlers need. Probes are the static status
// checks (storage, redis); endpoint probes are built per request.
type Deps struct {
	Products      repo.ProductRepository
	Categories    repo.NamedRepository
	Suppliers     repo.NamedRepository
	Auth          *auth.AuthService
	Status        *status.Checker
	Probes        []status.Probe
	StatusBaseURL string
	HTTPClient    *http.Client
	Analytics     analytics.Options
}

type Server struct {
	Deps
	validate *validator.Validate
}

func NewServer(d Deps) *Server {
	if d.HTTPClient == nil {
		d.HTTPClient = &http.Client{}
	}
	return &Server{
		Deps:     d,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}
