package respond

import (
	"github.com/danielgtaylor/huma/v2/negotiation"
)

type format int

const (
	formatJSON format = iota
	formatCBOR
)

var problemTypes = []string{
	"application/json",
	"application/problem+json",
	"application/cbor",
	"application/problem+cbor",
}

// selectFormat picks CBOR only when the client's best explicit match is a CBOR
// type. Anything else, including no match, gets JSON.
func selectFormat(accept string) format {
	if accept == "" {
		return formatJSON
	}
	switch negotiation.SelectQValueFast(accept, problemTypes) {
	case "application/cbor", "application/problem+cbor":
		return formatCBOR
	default:
		return formatJSON
	}
}
