// Package apiconfig builds the huma configuration shared by the server and tests.
package apiconfig

import (
	"github.com/danielgtaylor/huma/v2"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
)

const (
	// Title is the OpenAPI document title.
	Title = "CI/CD Greeter API"
	// DocsPath serves the interactive API reference.
	DocsPath = "/api-docs"
)

// New returns a huma config for the given build version.
//
// The schema link transformer is removed so response bodies carry only their
// declared fields (no "$schema" key). JSON is the default format; CBOR is
// negotiated through Accept and advertised next to JSON in the OpenAPI document.
func New(version string) huma.Config {
	cfg := huma.DefaultConfig(Title, version)
	cfg.DocsPath = DocsPath
	cfg.CreateHooks = nil
	cfg.OpenAPI.OnAddOperation = append(cfg.OpenAPI.OnAddOperation, advertiseCBOR)
	return cfg
}

func advertiseCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
