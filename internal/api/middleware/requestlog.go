package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"postboard/internal/api/shared"
	"postboard/internal/platform/logger"
)

// maxLoggedBodyBytes caps how much of a request body the logging hooks will
// buffer. Larger bodies are logged as null and passed through untouched.
const maxLoggedBodyBytes = 1 << 20

// RequestLogger returns the request/response logging hooks applied to every
// route. Before dispatch it records the start time in the request context and
// emits an event="request" record with the method, path, query parameters and
// parsed JSON body (null when absent or unparseable; parse failures are
// swallowed, never surfaced to the caller). After the handler returns, on
// every exit path, it emits an event="response" record with the status code,
// path and elapsed seconds.
//
// The hooks are pure observers: they never alter the response, and their own
// failures must never abort the request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := shared.SetRequestStart(r.Context(), start)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		logRequest(log, r)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rec := recover()

			status := ww.Status()
			if rec != nil {
				// The panic unwinds to the recoverer upstream, which
				// answers 500; log the status the client will see.
				status = http.StatusInternalServerError
			} else if status == 0 {
				// Nothing was written; net/http defaults to 200.
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("event", "response"),
				slog.Int("status", status),
				slog.String("path", r.URL.Path),
			}
			// duration_s is null for responses whose request was never
			// stamped with a start time.
			if begin, ok := shared.GetRequestStart(r.Context()); ok {
				attrs = append(attrs, slog.Float64("duration_s", time.Since(begin).Seconds()))
			} else {
				attrs = append(attrs, slog.Any("duration_s", nil))
			}

			emit(log, slog.LevelInfo, "http response", attrs...)

			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

// logRequest emits the event="request" record. The body is read, parsed on a
// best-effort basis, and restored so the handler sees it untouched.
func logRequest(log *slog.Logger, r *http.Request) {
	query := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	body := readJSONBody(r)

	attrs := []slog.Attr{
		slog.String("event", "request"),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("args", query),
	}
	if body != nil {
		attrs = append(attrs, slog.Any("json", body))
	} else {
		attrs = append(attrs, slog.Any("json", nil))
	}

	emit(log, slog.LevelInfo, "http request", attrs...)
}

// readJSONBody buffers the request body, restores it on the request, and
// returns the decoded JSON value, or nil when the body is absent, too large
// or not valid JSON. Errors here are deliberately swallowed.
func readJSONBody(r *http.Request) interface{} {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	// The handler must always get the bytes back, whatever happened here.
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 || len(raw) > maxLoggedBodyBytes {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	return parsed
}

// emit writes a log record, guarding against a panicking slog handler so the
// hooks can never take the request down with them.
func emit(log *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("request logging hook panicked", "panic", rec)
		}
	}()

	log.LogAttrs(context.Background(), level, msg, attrs...)
}
