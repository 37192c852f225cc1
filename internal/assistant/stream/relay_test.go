package stream

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/assistant/genai"
	stderrors "sales-assistant/internal/common/errors"
	"sales-assistant/internal/common/logger"
	"sales-assistant/internal/models"
)

// ==========================
// Test Doubles
// ==========================

// fakeStream replays scripted fragments, then a terminal error.
type fakeStream struct {
	fragments []string
	terminal  error
	pos       int
	closed    bool
	received  int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", s.terminal
	}
	text := s.fragments[s.pos]
	s.pos++
	s.received++
	return text, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeStreamer struct {
	stream  *fakeStream
	openErr error
}

func (f *fakeStreamer) StreamCompletion(ctx context.Context, history []models.ConversationTurn, prompt string) (genai.Stream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

// recordingSink collects events, optionally failing after a number of sends.
type recordingSink struct {
	events    []models.StreamEvent
	failAfter int // -1 never fails
}

func (s *recordingSink) Send(event models.StreamEvent) error {
	if s.failAfter >= 0 && len(s.events) >= s.failAfter {
		return errors.New("client disconnected")
	}
	s.events = append(s.events, event)
	return nil
}

func newSink() *recordingSink {
	return &recordingSink{failAfter: -1}
}

// ==========================
// Relay
// ==========================

func TestRun_FragmentsInOrderThenSingleDone(t *testing.T) {
	fs := &fakeStream{fragments: []string{"Olá", ", ", "Maria"}, terminal: io.EOF}
	relay := NewRelay(&fakeStreamer{stream: fs}, logger.NewTestLogger(t))
	sink := newSink()

	state, err := relay.Run(context.Background(), nil, "oi", sink)

	assert.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	assert.Len(t, sink.events, 4)
	assert.Equal(t, models.FragmentEvent("Olá"), sink.events[0])
	assert.Equal(t, models.FragmentEvent(", "), sink.events[1])
	assert.Equal(t, models.FragmentEvent("Maria"), sink.events[2])
	assert.Equal(t, models.DoneEvent(), sink.events[3])
	assert.True(t, fs.closed)
}

func TestRun_EmptyAnswerStillEmitsDone(t *testing.T) {
	fs := &fakeStream{terminal: io.EOF}
	relay := NewRelay(&fakeStreamer{stream: fs}, logger.NewTestLogger(t))
	sink := newSink()

	state, err := relay.Run(context.Background(), nil, "oi", sink)

	assert.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, []models.StreamEvent{models.DoneEvent()}, sink.events)
}

func TestRun_OpenFailure(t *testing.T) {
	relay := NewRelay(&fakeStreamer{openErr: errors.New("401 unauthorized")}, logger.NewTestLogger(t))
	sink := newSink()

	state, err := relay.Run(context.Background(), nil, "oi", sink)

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, stderrors.ErrCodeGenerationFailure, stderrors.CodeOf(err))
	assert.Empty(t, sink.events)
}

func TestRun_MidStreamFailureDeliversNoDone(t *testing.T) {
	fs := &fakeStream{fragments: []string{"Hel", "lo"}, terminal: errors.New("connection reset")}
	relay := NewRelay(&fakeStreamer{stream: fs}, logger.NewTestLogger(t))
	sink := newSink()

	state, err := relay.Run(context.Background(), nil, "oi", sink)

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, stderrors.ErrCodeGenerationFailure, stderrors.CodeOf(err))
	// Fragments delivered before the failure stay delivered.
	assert.Equal(t, []models.StreamEvent{
		models.FragmentEvent("Hel"),
		models.FragmentEvent("lo"),
	}, sink.events)
	for _, ev := range sink.events {
		assert.NotEqual(t, models.EventDone, ev.Type)
	}
	assert.True(t, fs.closed)
}

func TestRun_SinkFailureStopsPullingFromModel(t *testing.T) {
	fs := &fakeStream{fragments: []string{"a", "b", "c", "d"}, terminal: io.EOF}
	relay := NewRelay(&fakeStreamer{stream: fs}, logger.NewTestLogger(t))
	sink := &recordingSink{failAfter: 2}

	state, err := relay.Run(context.Background(), nil, "oi", sink)

	assert.Equal(t, StateFailed, state)
	assert.Error(t, err)
	assert.Len(t, sink.events, 2)
	// The third Recv hands back the fragment whose Send failed; no further
	// pulls happen after that.
	assert.Equal(t, 3, fs.received)
	assert.True(t, fs.closed)
}
