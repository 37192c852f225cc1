// internal/server/sse.go
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"sales-assistant/internal/models"
)

// sseSink writes relay events as server-sent-event frames. Headers go out
// lazily with the first event, so a relay that fails before producing
// anything still leaves room for a plain JSON error response.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newSSESink(w http.ResponseWriter) *sseSink {
	flusher, _ := w.(http.Flusher)
	return &sseSink{w: w, flusher: flusher}
}

func (s *sseSink) Send(event models.StreamEvent) error {
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	var err error
	switch event.Type {
	case models.EventFragment:
		payload, marshalErr := json.Marshal(struct {
			Text string `json:"text"`
		}{event.Text})
		if marshalErr != nil {
			return marshalErr
		}
		_, err = fmt.Fprintf(s.w, "data: %s\n\n", payload)
	case models.EventDone:
		_, err = io.WriteString(s.w, "data: [DONE]\n\n")
	case models.EventError:
		payload, marshalErr := json.Marshal(struct {
			Error string `json:"error"`
		}{event.Text})
		if marshalErr != nil {
			return marshalErr
		}
		_, err = fmt.Fprintf(s.w, "data: %s\n\n", payload)
	}
	if err != nil {
		return err
	}

	// Each frame reaches the client as soon as it exists.
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Started reports whether any frame has been written. Once true, the
// response is committed as an event stream.
func (s *sseSink) Started() bool {
	return s.started
}
