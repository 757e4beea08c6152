package nats

import (
	"context"
	"os"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "promptsmith.abc.>", SubjectForSession("abc"))
	assert.Equal(t, "promptsmith.abc.step", SubjectForEvent("abc", EventTypeStep))
}

func TestBus_Lifecycle(t *testing.T) {
	ctx := context.Background()
	b, err := Start(ctx)
	require.NoError(t, err)
	dir := b.dir

	info, err := b.Stream().Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, jetstream.MemoryStorage, info.Config.Storage)

	seq, err := b.Publish(ctx, "abc", EventTypeSaved, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	require.NoError(t, b.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	// Second close is a no-op.
	require.NoError(t, b.Close())
}
