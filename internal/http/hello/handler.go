package hello

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-greeter/internal/platform/logging"
)

// Register wires the root greeting into the provided API.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Get the pipeline greeting",
		Description: "Returns a fixed greeting used by CI/CD smoke checks.",
		Tags:        []string{"Greeting"},
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GreetingOutput, error) {
	applog.LogInfo(ctx, "root greeting", zap.String("path", "/"))
	return &GreetingOutput{Body: GreetingData{Message: Greeting}}, nil
}
