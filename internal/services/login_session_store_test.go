package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caa-backend/internal/domain"
)

func TestDBLoginSessionStoreExpiryAndPurge(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	store := NewDBLoginSessionStore(testutil.Logger(t), r.loginSessions).(*dbLoginSessionStore)
	store.now = clock.Now

	short := &types.LoginSession{ID: uuid.New(), ProfessionalID: 1, ExpiresAt: clock.Now().Add(time.Minute)}
	long := &types.LoginSession{ID: uuid.New(), ProfessionalID: 1, ExpiresAt: clock.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, short))
	require.NoError(t, store.Create(ctx, long))

	got, err := store.Get(ctx, short.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	clock.Advance(2 * time.Minute)
	got, err = store.Get(ctx, short.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, store.Delete(ctx, long.ID))
	got, err = store.Get(ctx, long.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type countingPurger struct{ calls chan struct{} }

func (p *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	select {
	case p.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestRunSessionJanitorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	purger := &countingPurger{calls: make(chan struct{}, 1)}
	done := make(chan error, 1)
	go func() { done <- RunSessionJanitor(ctx, testutil.Logger(t), purger, 5*time.Millisecond) }()

	select {
	case <-purger.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never purged")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
