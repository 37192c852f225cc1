// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"sales-assistant/internal/assistant/contextdata"
	"sales-assistant/internal/assistant/prompt"
	"sales-assistant/internal/assistant/stream"
	"sales-assistant/internal/common/auth"
	"sales-assistant/internal/common/errors"
	"sales-assistant/internal/common/logger"
	"sales-assistant/internal/common/metrics"
	"sales-assistant/internal/common/observability"
	"sales-assistant/internal/models"
)

// requestSchema gates the inbound body before any processing. The message
// is required and non-empty; the history, when present, must be an array
// of role/content turns.
const requestSchema = `{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"history": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["role", "content"],
				"properties": {
					"role": {"type": "string", "enum": ["user", "assistant"]},
					"content": {"type": "string"}
				}
			}
		}
	}
}`

const maxRequestBody = 1 << 20

type ChatHandler struct {
	aggregator *contextdata.Aggregator
	composer   *prompt.Composer
	relay      *stream.Relay
	obs        *observability.Observability
	logger     logger.Logger
	schema     *gojsonschema.Schema
}

func NewChatHandler(
	aggregator *contextdata.Aggregator,
	composer *prompt.Composer,
	relay *stream.Relay,
	obs *observability.Observability,
	log logger.Logger,
) (*ChatHandler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		return nil, err
	}
	return &ChatHandler{
		aggregator: aggregator,
		composer:   composer,
		relay:      relay,
		obs:        obs,
		logger:     log.With(map[string]interface{}{"component": "chat-handler"}),
		schema:     schema,
	}, nil
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sessionID := uuid.NewString()
	log := h.logger.With(map[string]interface{}{"sessionId": sessionID})

	req, stdErr := h.decodeRequest(r)
	if stdErr != nil {
		log.Warn("request rejected", map[string]interface{}{
			"details": stdErr.Details,
		})
		h.finish(ctx, start, "rejected")
		writeError(w, http.StatusBadRequest, stdErr)
		return
	}

	identity, err := auth.FromRequest(r)
	if err != nil {
		// Unparsable cookie degrades to the anonymous identity.
		log.Warn("identity cookie unparsable", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// The snapshot is assembled only on the first turn; later turns ride on
	// the conversation history the client sends back.
	var snap *models.Snapshot
	if len(req.History) == 0 {
		snap = h.aggregator.Aggregate(ctx, identity)
	}
	composed := h.composer.Compose(req.History, snap, req.Message)

	log.Info("chat request accepted", map[string]interface{}{
		"userId":     identity.ID,
		"firstTurn":  len(req.History) == 0,
		"historyLen": len(req.History),
	})

	sink := newSSESink(w)
	state, err := h.relay.Run(ctx, req.History, composed, sink)
	if err != nil {
		if !sink.Started() {
			h.finish(ctx, start, "failed")
			writeError(w, http.StatusBadGateway, errors.NewGenerationFailureError(err))
			return
		}
		// The stream is already committed; the missing [DONE] sentinel tells
		// the client the answer was cut short.
		log.Error("stream aborted after start", map[string]interface{}{
			"error": err.Error(),
		})
		h.finish(ctx, start, "failed")
		return
	}

	log.Info("chat request completed", map[string]interface{}{
		"state":      string(state),
		"durationMs": time.Since(start).Milliseconds(),
	})
	h.finish(ctx, start, "completed")
}

// decodeRequest validates the body against the schema and unmarshals it.
func (h *ChatHandler) decodeRequest(r *http.Request) (*models.ChatRequest, *errors.StandardError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, errors.NewRequestMalformedError("body unreadable")
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, errors.NewRequestMalformedError("body is not valid JSON")
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return nil, errors.NewRequestMalformedError(details)
	}

	var req models.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.NewRequestMalformedError(err.Error())
	}
	return &req, nil
}

func (h *ChatHandler) finish(ctx context.Context, start time.Time, status string) {
	metrics.ChatRequests.WithLabelValues(status).Inc()
	if h.obs != nil {
		h.obs.RecordRequest(ctx, status)
		h.obs.RecordRequestDuration(ctx, time.Since(start), status)
	}
}

func writeError(w http.ResponseWriter, status int, stdErr *errors.StandardError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": stdErr,
	})
}
