package graphql

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/ayush9goyal/graphql-k8s-demo/metric"
)

const maxRequestBytes = 1 << 20

// Request is a GraphQL over HTTP request
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes GraphQL requests against a schema
type Handler struct {
	schema  graphql.Schema
	metrics *metric.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(schema graphql.Schema, metrics *metric.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		schema:  schema,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute runs one request. Field errors are annotated with extensions.code.
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	start := time.Now()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	codes := annotateErrors(result.Errors)
	duration := time.Since(start)

	if h.metrics != nil {
		h.metrics.RecordRequest(req.OperationName, result.HasErrors(), duration)
		for _, code := range codes {
			h.metrics.RecordFieldError(code)
		}
	}

	logger := h.logger.With("operation", req.OperationName, "request_id", RequestIDFromContext(ctx))
	for i, e := range result.Errors {
		if codes[i] == CodeInternal || codes[i] == CodeTransient {
			logger.Warn("GraphQL field failed", "code", codes[i], "path", e.Path, "error", originalError(e))
		}
	}
	logger.Debug("GraphQL request executed", "duration", duration, "errors", len(result.Errors))

	return result
}

// ServeHTTP accepts GET with URL parameters and POST with a JSON or
// application/graphql body. GraphQL errors are reported with status 200.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				writeRequestError(w, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}

	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/graphql" {
			data, err := io.ReadAll(body)
			if err != nil {
				writeRequestError(w, http.StatusBadRequest, "could not read request body")
				return
			}
			req.Query = string(data)
		} else if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeRequestError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}

	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeRequestError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		writeRequestError(w, http.StatusBadRequest, "must provide query string")
		return
	}

	result := h.Execute(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to write GraphQL response", "error", err)
	}
}

func writeRequestError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(graphql.Result{
		Errors: []gqlerrors.FormattedError{{Message: message}},
	})
}
