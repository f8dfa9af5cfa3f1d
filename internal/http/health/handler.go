package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusHealthy is reported while the process is able to serve requests.
const StatusHealthy = "healthy"

// HealthData is the payload for the health endpoint.
type HealthData struct {
	Status  string `json:"status" doc:"Health status" example:"healthy"`
	Version string `json:"version" doc:"Build version" example:"1.0.0"`
}

// HealthOutput is the response wrapper for the health endpoint.
type HealthOutput struct {
	Body HealthData
}

// Register wires GET /health into the provided API.
func Register(api huma.API, version string) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
		Tags:        []string{"Health"},
	}, func(context.Context, *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthData{Status: StatusHealthy, Version: version}}, nil
	})
}
