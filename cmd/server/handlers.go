package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	slotnormalizer "github.com/baditaflorin/go_slot_normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/pkg/batch"
	"github.com/baditaflorin/l"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// NormalizeRequest is the body of POST /normalize.
type NormalizeRequest struct {
	Text          string                `json:"text"`
	Domain        string                `json:"domain,omitempty"`
	Substitutions []domain.Substitution `json:"substitutions,omitempty" validate:"dive"`
}

// TimeRequest is the body of POST /time.
type TimeRequest struct {
	Text string `json:"text"`
}

// TextResponse carries a normalized string.
type TextResponse struct {
	Text string `json:"text"`
}

// CanonicalizeRequest is the body of POST /canonicalize.
type CanonicalizeRequest struct {
	Domain        string                `json:"domain"`
	Slot          string                `json:"slot" validate:"required"`
	Value         string                `json:"value"`
	Substitutions []domain.Substitution `json:"substitutions,omitempty" validate:"dive"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// engines are replaced together when the mapping file is reloaded.
type engines struct {
	normalizer *slotnormalizer.Normalizer
	batch      *batch.Processor
}

type handler struct {
	current  atomic.Pointer[engines]
	logger   l.Logger
	validate *validator.Validate
	timeout  time.Duration
}

func newHandler(n *slotnormalizer.Normalizer, bp *batch.Processor, logger l.Logger, timeout time.Duration) *handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	h := &handler{
		logger:   logger,
		validate: validator.New(),
		timeout:  timeout,
	}
	h.swap(n, bp)
	return h
}

// swap installs new engines for subsequent requests. In-flight requests
// finish on the engines they started with.
func (h *handler) swap(n *slotnormalizer.Normalizer, bp *batch.Processor) {
	h.current.Store(&engines{normalizer: n, batch: bp})
}

// ServeHTTP is the main fasthttp request handler
func (h *handler) ServeHTTP(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	requestID := string(ctx.Request.Header.Peek("X-Request-ID"))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Response.Header.Set("X-Request-ID", requestID)
	ctx.Response.Header.Set("Content-Type", "application/json")

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/normalize":
		h.handleNormalize(ctx)
	case "/time":
		h.handleTime(ctx)
	case "/canonicalize":
		h.handleCanonicalize(ctx)
	case "/batch":
		h.handleBatch(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (h *handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *handler) handleNormalize(ctx *fasthttp.RequestCtx) {
	var req NormalizeRequest
	if !h.decode(ctx, &req) {
		return
	}
	d, _ := domain.ParseDomain(req.Domain)

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, TextResponse{
		Text: h.current.Load().normalizer.NormalizeWith(req.Text, req.Substitutions, d),
	})
}

func (h *handler) handleTime(ctx *fasthttp.RequestCtx) {
	var req TimeRequest
	if !h.decode(ctx, &req) {
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, TextResponse{Text: h.current.Load().normalizer.NormalizeTime(req.Text)})
}

func (h *handler) handleCanonicalize(ctx *fasthttp.RequestCtx) {
	var req CanonicalizeRequest
	if !h.decode(ctx, &req) {
		return
	}
	// Unknown domains are canonicalized as unspecified.
	d, _ := domain.ParseDomain(req.Domain)

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, h.current.Load().normalizer.CanonicalizeSlotValue(domain.SlotValue{
		Domain: d,
		Slot:   req.Slot,
		Value:  req.Value,
	}, req.Substitutions))
}

// handleBatch canonicalizes a JSON Lines body. Per-line failures are
// reported in headers; the rest of the body is still processed.
func (h *handler) handleBatch(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var out bytes.Buffer
	summary, err := h.current.Load().batch.Process(c, bytes.NewReader(ctx.PostBody()), &out)
	if err != nil {
		h.logger.Error("Batch processing failed", "error", err, "lines", summary.Lines)
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Batch failed: "+err.Error())
		return
	}
	for _, le := range summary.Errors {
		h.logger.Warn("Skipped batch line", "line", le.Line, "error", le.Err)
	}

	ctx.Response.Header.Set("Content-Type", "application/x-ndjson")
	ctx.Response.Header.Set("X-Lines", strconv.Itoa(summary.Lines))
	ctx.Response.Header.Set("X-Utterances", strconv.Itoa(summary.Utterances))
	ctx.Response.Header.Set("X-Annotations", strconv.Itoa(summary.Annotations))
	ctx.Response.Header.Set("X-Skipped", strconv.Itoa(summary.Skipped))
	ctx.Response.Header.Set("X-Errors", strconv.Itoa(len(summary.Errors)))
	ctx.Response.Header.Set("X-Processing-Time", summary.ProcessingTime.String())
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(out.Bytes())
}

// decode reads and validates a JSON POST body, writing the error response
// itself when it returns false.
func (h *handler) decode(ctx *fasthttp.RequestCtx, req interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return false
	}
	if err := json.Unmarshal(ctx.PostBody(), req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// writeJSONResponse writes a JSON response to the context
func (h *handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *handler) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}
