package api

import "github.com/JaimeStill/hackid/internal/validations"

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Validations validations.System
}

// NewDomain creates the domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Validations: validations.New(
			runtime.Database.Connection(),
			runtime.Storage,
			runtime.Runner,
			runtime.Pacer,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
