package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls  atomic.Int32
	purged int64
	err    error
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("purge must run with a deadline")
	}
	return f.purged, f.err
}

type fakeRecorder struct {
	total atomic.Int64
}

func (f *fakeRecorder) AddSessionsPurged(n int64) {
	f.total.Add(n)
}

func TestPurgeSessions_RecordsCount(t *testing.T) {
	purger := &fakePurger{purged: 4}
	recorder := &fakeRecorder{}

	purgeSessions(context.Background(), purger, recorder, zerolog.Nop())

	assert.EqualValues(t, 1, purger.calls.Load())
	assert.EqualValues(t, 4, recorder.total.Load())
}

func TestPurgeSessions_ErrorRecordsNothing(t *testing.T) {
	purger := &fakePurger{purged: 4, err: errors.New("db down")}
	recorder := &fakeRecorder{}

	purgeSessions(context.Background(), purger, recorder, zerolog.Nop())

	assert.Zero(t, recorder.total.Load())
}

func TestStartSessionPurge_InvalidSchedule(t *testing.T) {
	_, err := StartSessionPurge("every tuesday-ish", &fakePurger{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestStartSessionPurge_Runs(t *testing.T) {
	purger := &fakePurger{}

	c, err := StartSessionPurge("@every 1s", purger, nil, zerolog.Nop())
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool {
		return purger.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
