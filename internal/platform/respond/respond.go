// Package respond renders RFC 9457 problem details for failures that happen
// outside huma operations: unknown routes, wrong methods and panics.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-greeter/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"

	msgNotFound       = "resource not found"
	msgInternalServer = "internal server error"
)

// NotFoundHandler emits a 404 problem response.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler emits a 405 problem response with an Allow header
// listing the methods the matched path does support.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer converts panics into 500 problem responses. http.ErrAbortHandler is
// re-raised so net/http can abort the connection, and nothing is written when
// the handler already sent headers.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				if errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				applog.LogError(r.Context(), "panic recovered", err,
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				if rw.wroteHeader {
					return
				}
				writeProblem(rw, r, http.StatusInternalServerError, msgInternalServer)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// responseWriter records whether the response has started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	problem := huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if status < http.StatusInternalServerError {
		applog.LogWarn(r.Context(), detail, zap.Int("status", status), zap.String("path", r.URL.Path))
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	if selectFormat(r.Header.Get("Accept")) == formatCBOR {
		contentType = contentTypeProblemCBOR
		body, err = cbor.Marshal(problem)
	} else {
		contentType = contentTypeProblemJSON
		body, err = marshalJSON(problem)
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	h := w.Header()
	ensureVary(h, "Accept")
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		applog.LogWarn(r.Context(), "failed to write problem", zap.Error(err))
	}
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ensureVary adds values to the Vary header unless already listed.
func ensureVary(h http.Header, values ...string) {
	present := map[string]struct{}{}
	for _, line := range h.Values("Vary") {
		for part := range strings.SplitSeq(line, ",") {
			if p := strings.TrimSpace(part); p != "" {
				present[strings.ToLower(p)] = struct{}{}
			}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := present[key]; ok || v == "" {
			continue
		}
		h.Add("Vary", v)
		present[key] = struct{}{}
	}
}

// allowedMethods asks chi which methods match the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
