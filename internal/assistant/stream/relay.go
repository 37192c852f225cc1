// internal/assistant/stream/relay.go

// Package stream pumps model output fragments into a client sink,
// preserving arrival order and guaranteeing a single terminal event.
package stream

import (
	"context"
	"io"

	"sales-assistant/internal/assistant/genai"
	"sales-assistant/internal/common/errors"
	"sales-assistant/internal/common/logger"
	"sales-assistant/internal/common/metrics"
	"sales-assistant/internal/models"
)

// State is the lifecycle of one relay run.
type State string

const (
	StateIdle      State = "idle"
	StateStreaming State = "streaming"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Sink receives relayed events. A Send error means the client is gone
// and the relay stops pulling from the model.
type Sink interface {
	Send(event models.StreamEvent) error
}

type Relay struct {
	model  genai.Streamer
	logger logger.Logger
}

func NewRelay(model genai.Streamer, log logger.Logger) *Relay {
	return &Relay{model: model, logger: log}
}

// Run streams the model's answer into the sink. Fragments are forwarded
// in arrival order; a normal end of stream is followed by exactly one
// done event. The returned state is terminal: completed or failed.
func (r *Relay) Run(ctx context.Context, history []models.ConversationTurn, prompt string, sink Sink) (State, error) {
	stream, err := r.model.StreamCompletion(ctx, history, prompt)
	if err != nil {
		r.logger.WithError(err).Error("model stream could not be opened", nil)
		return StateFailed, errors.NewGenerationFailureError(err)
	}
	defer stream.Close()

	fragments := 0

	for {
		text, err := stream.Recv()
		if err == io.EOF {
			if sendErr := sink.Send(models.DoneEvent()); sendErr != nil {
				r.logger.WithError(sendErr).Warn("client went away before done event", nil)
				return StateFailed, sendErr
			}
			r.logger.Debug("stream completed", map[string]interface{}{
				"fragments": fragments,
			})
			return StateCompleted, nil
		}
		if err != nil {
			r.logger.WithError(err).Error("model stream failed mid-generation", map[string]interface{}{
				"fragments": fragments,
			})
			return StateFailed, errors.NewGenerationFailureError(err)
		}

		if sendErr := sink.Send(models.FragmentEvent(text)); sendErr != nil {
			r.logger.WithError(sendErr).Warn("client went away mid-stream", map[string]interface{}{
				"fragments": fragments,
			})
			return StateFailed, sendErr
		}
		fragments++
		metrics.StreamFragments.Inc()
	}
}
