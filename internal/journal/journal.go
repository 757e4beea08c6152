// Package journal keeps an in-memory, event-sourced log of a wizard
// session on an embedded JetStream stream.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/promptsmith/internal/logger"
	inats "github.com/mark3labs/promptsmith/internal/nats"
	"github.com/mark3labs/promptsmith/internal/wizard"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one entry in the journal.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Session   string          `json:"session"`
	Type      string          `json:"type"`   // step, edit, saved
	Action    string          `json:"action"` // advanced, failed, reset, edited, saved
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data,omitempty"` // error text or file path
}

// StepMeta is the metadata of a step event.
type StepMeta struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Op          string `json:"op,omitempty"`
	ElapsedMS   int64  `json:"elapsed_ms,omitempty"`
	Questions   int    `json:"questions"`
	PlanSteps   int    `json:"plan_steps"`
	PromptChars int    `json:"prompt_chars"`
}

// Journal records session changes on its own embedded bus.
type Journal struct {
	session string
	bus     *inats.Bus
}

// Open starts the embedded bus for a fresh session id.
func Open(ctx context.Context) (*Journal, error) {
	bus, err := inats.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting journal bus: %w", err)
	}
	j := &Journal{session: uuid.NewString(), bus: bus}
	logger.Debug("Journal opened for session %s", j.session)
	return j, nil
}

// Session returns the journal's session id.
func (j *Journal) Session() string {
	return j.session
}

// Record appends an event to the journal.
func (j *Journal) Record(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Session == "" {
		event.Session = j.session
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	seq, err := j.bus.Publish(ctx, event.Session, event.Type, data)
	if err != nil {
		logger.Error("Failed to publish %s event: %v", event.Type, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	logger.Debug("Journal event %s/%s recorded: seq=%d", event.Type, event.Action, seq)
	return nil
}

// Observe records a controller change. It matches the signature expected by
// wizard.WithObserver and never fails the caller.
func (j *Journal) Observe(ch wizard.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := j.Record(ctx, EventFromChange(ch)); err != nil {
		logger.Warn("journal: %v", err)
	}
}

// RecordSaved notes that the final prompt was written to path.
func (j *Journal) RecordSaved(ctx context.Context, path string) error {
	return j.Record(ctx, Event{Type: inats.EventTypeSaved, Action: "saved", Data: path})
}

// RecordEdited notes that the final prompt was edited by hand.
func (j *Journal) RecordEdited(ctx context.Context, added, removed int) error {
	meta, _ := json.Marshal(map[string]int{"added": added, "removed": removed})
	return j.Record(ctx, Event{Type: inats.EventTypeEdit, Action: "edited", Meta: meta})
}

// EventFromChange converts a controller change into a journal event.
func EventFromChange(ch wizard.Change) Event {
	meta := StepMeta{
		From:        ch.From.String(),
		To:          ch.To.String(),
		Op:          ch.Op,
		ElapsedMS:   ch.Elapsed.Milliseconds(),
		Questions:   len(ch.Form.AIQuestions),
		PlanSteps:   len(ch.Form.AIPlan),
		PromptChars: len(ch.FinalPrompt),
	}
	raw, _ := json.Marshal(meta)

	ev := Event{
		Type:   inats.EventTypeStep,
		Action: string(ch.Kind),
		Meta:   raw,
	}
	if ch.Err != nil {
		ev.Data = ch.Err.Error()
	}
	return ev
}

// Load reads every event of the journal's session in order.
func (j *Journal) Load(ctx context.Context) ([]Event, error) {
	stream := j.bus.Stream()
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: inats.SubjectForSession(j.session),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}

	const batchSize = 1000
	var events []Event
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				logger.Warn("Skipping malformed journal event: %v", err)
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			events = append(events, event)
			_ = msg.Ack()
		}
		if count < batchSize {
			break
		}
	}
	return events, nil
}

// Summary replays the journal into a Summary.
func (j *Journal) Summary(ctx context.Context) (*Summary, error) {
	events, err := j.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := &Summary{Session: j.session}
	for _, ev := range events {
		s.Apply(ev)
	}
	return s, nil
}

// Close shuts the bus down.
func (j *Journal) Close() error {
	return j.bus.Close()
}
