package hello

// Greeting is the fixed message served from the root endpoint. Pipelines compare
// it byte for byte.
const Greeting = "Hello from CI/CD pipeline!"

// GreetingData models the root endpoint response.
type GreetingData struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello from CI/CD pipeline!"`
}

// GreetingOutput is the response wrapper for the root endpoint.
type GreetingOutput struct {
	Body GreetingData
}
