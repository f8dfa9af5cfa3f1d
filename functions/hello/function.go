// Package hello serves the pipeline greeting as an HTTP Cloud Function.
package hello

import (
	"encoding/json"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
)

// Greeting matches the message served by the main service.
const Greeting = "Hello from CI/CD pipeline!"

func init() {
	functions.HTTP("Hello", helloHandler)
}

// Response is the function response body.
type Response struct {
	Message string `json:"message"`
}

func helloHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(Response{Message: Greeting})
}
