// Package nats runs the in-process NATS server that backs the session
// journal.
package nats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Bus is an embedded JetStream server with one in-process client and the
// journal stream. Nothing it holds outlives the process.
type Bus struct {
	dir    string
	ns     *server.Server
	nc     *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// Start boots the server in a scratch directory, connects to it and
// creates the journal stream. On failure everything already started is
// torn down.
func Start(ctx context.Context) (*Bus, error) {
	dir, err := os.MkdirTemp("", "promptsmith-journal-")
	if err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	b := &Bus{dir: dir}

	if b.ns, err = startServer(dir); err != nil {
		_ = b.Close()
		return nil, err
	}
	if b.nc, err = nats.Connect("", nats.InProcessServer(b.ns)); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}
	if b.js, err = jetstream.New(b.nc); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}
	if b.stream, err = SetupStream(ctx, b.js); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("creating journal stream: %w", err)
	}

	logger.Debug("Journal bus ready (store dir: %s)", dir)
	return b, nil
}

func startServer(dir string) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dir,
		DontListen: true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("server not ready after %s", readyTimeout)
	}
	return ns, nil
}

// Publish appends data under the subject of one event type in a session.
// Returns the stream sequence.
func (b *Bus) Publish(ctx context.Context, session, eventType string, data []byte) (uint64, error) {
	ack, err := b.js.Publish(ctx, SubjectForEvent(session, eventType), data)
	if err != nil {
		return 0, err
	}
	return ack.Sequence, nil
}

// Stream returns the journal stream.
func (b *Bus) Stream() jetstream.Stream {
	return b.stream
}

// Close drains the client, stops the server and removes the store dir.
// Each step is bounded so a wedged server never blocks exit.
func (b *Bus) Close() error {
	var errs []error

	if b.nc != nil {
		done := make(chan error, 1)
		go func() { done <- b.nc.Drain() }()

		select {
		case err := <-done:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				b.nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			b.nc.Close()
		}
		b.nc = nil
	}

	if b.ns != nil {
		b.ns.Shutdown()

		done := make(chan struct{})
		go func() {
			b.ns.WaitForShutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			errs = append(errs, fmt.Errorf("server shutdown timed out after %s", shutdownTimeout))
		}
		b.ns = nil
	}

	if b.dir != "" {
		if err := os.RemoveAll(b.dir); err != nil {
			errs = append(errs, err)
		}
		b.dir = ""
	}
	return errors.Join(errs...)
}
