package payments

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_ProcessesQueuedJobs(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := NewDispatcher(NewService(repo), 4, 2, time.Second)
	dispatcher.Start()

	userID := uuid.New()
	ok := dispatcher.Enqueue(Job{
		EventID:   "evt_1",
		EventType: EventPaymentCaptured,
		Payment:   testPayment(&userID),
		RawBody:   []byte(`{}`),
	})
	require.True(t, ok)

	dispatcher.Stop()

	assert.Len(t, repo.payments, 1)
	assert.Len(t, repo.subs, 1)
	_, recorded := repo.events["evt_1"]
	assert.True(t, recorded, "event ledger entry should be written after processing")
}

func TestDispatcher_FailedJobGoesToDeadLetter(t *testing.T) {
	repo := newFakeRepo()
	repo.upsertErr = errors.New("store down")
	dispatcher := NewDispatcher(NewService(repo), 4, 1, time.Second)
	dispatcher.Start()

	userID := uuid.New()
	require.True(t, dispatcher.Enqueue(Job{
		EventID:   "evt_1",
		EventType: EventPaymentCaptured,
		Payment:   testPayment(&userID),
	}))

	dispatcher.Stop()

	// The event must not be marked processed; redelivery should reprocess.
	_, recorded := repo.events["evt_1"]
	assert.False(t, recorded)
}

func TestDispatcher_EnqueueFailsWhenFull(t *testing.T) {
	// Never started, so nothing drains the queue.
	dispatcher := NewDispatcher(NewService(newFakeRepo()), 1, 1, time.Second)

	require.True(t, dispatcher.Enqueue(Job{EventID: "evt_1", EventType: "payment.downtime"}))
	assert.False(t, dispatcher.Enqueue(Job{EventID: "evt_2", EventType: "payment.downtime"}))
}
