package logging

import (
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

type traceContext struct {
	traceID string
	spanID  string
	sampled bool
}

// parseTraceparent returns false for malformed headers and the all-zero IDs the
// W3C format reserves as invalid.
func parseTraceparent(header string) (traceContext, bool) {
	m := traceparentRe.FindStringSubmatch(header)
	if m == nil || m[1] == "ff" {
		return traceContext{}, false
	}
	if m[2] == "00000000000000000000000000000000" || m[3] == "0000000000000000" {
		return traceContext{}, false
	}
	flags, err := strconv.ParseUint(m[4], 16, 8)
	if err != nil {
		return traceContext{}, false
	}
	return traceContext{traceID: m[2], spanID: m[3], sampled: flags&0x01 == 1}, true
}

func (tc traceContext) resource(project string) string {
	return fmt.Sprintf("projects/%s/traces/%s", project, tc.traceID)
}

func traceFields(header, project string) []zap.Field {
	if project == "" {
		return nil
	}
	tc, ok := parseTraceparent(header)
	if !ok {
		return nil
	}
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", tc.resource(project)),
		zap.String("logging.googleapis.com/spanId", tc.spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", tc.sampled),
	}
}

func traceResource(header, project string) string {
	if project == "" {
		return ""
	}
	tc, ok := parseTraceparent(header)
	if !ok {
		return ""
	}
	return tc.resource(project)
}

func loggerWithTrace(base *zap.Logger, header, project, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(header, project)
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
