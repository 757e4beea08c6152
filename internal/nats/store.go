package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "promptsmith_journal"
	subjectPrefix = "promptsmith"

	// Event types
	EventTypeStep  = "step"
	EventTypeEdit  = "edit"
	EventTypeSaved = "saved"
)

// SubjectForSession returns the wildcard subject for all events of a session.
// Example: "promptsmith.4f9c.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectPrefix, session)
}

// SubjectForEvent returns the subject for one event type in a session.
// Example: "promptsmith.4f9c.step"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, session, eventType)
}

// SetupStream creates or updates the journal stream. It is kept in memory:
// wizard sessions are not persisted across runs.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.MemoryStorage,
		MaxMsgs:  10000,
	})
}
