package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/cicd-greeter/internal/http/health"
	"github.com/janisto/cicd-greeter/internal/http/hello"
)

// Register wires all HTTP routes into the provided API.
func Register(api huma.API, version string) {
	health.Register(api, version)
	hello.Register(api)
}
