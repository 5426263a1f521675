package leadagent_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/apps/leadagent"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

type mockOrgLister struct {
	orgs    []postgres.Org
	hasPaid bool
}

func (m *mockOrgLister) ListOrgs(ctx context.Context) ([]postgres.Org, error) {
	return m.orgs, nil
}

func (m *mockOrgLister) HasPaidOrg(ctx context.Context) (bool, error) {
	return m.hasPaid, nil
}

type mockNotificationStore struct {
	mu     sync.Mutex
	due    []postgres.Notification
	sent   []uuid.UUID
	failed map[uuid.UUID]string
}

func newMockNotificationStore(due ...postgres.Notification) *mockNotificationStore {
	return &mockNotificationStore{due: due, failed: make(map[uuid.UUID]string)}
}

func (m *mockNotificationStore) HasDueNotifications(ctx context.Context, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.due) > 0, nil
}

func (m *mockNotificationStore) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]postgres.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]postgres.Notification, len(m.due))
	copy(out, m.due)
	return out, nil
}

func (m *mockNotificationStore) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, id)
	return nil
}

func (m *mockNotificationStore) MarkNotificationFailed(ctx context.Context, id uuid.UUID, cause string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[id] = cause
	return nil
}

type mockSender struct {
	mu       sync.Mutex
	failChat int64
	sent     []int64
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chatID == m.failChat {
		return errors.New("bot was blocked by the user")
	}
	m.sent = append(m.sent, chatID)
	return nil
}

func TestDiscoveryTask(t *testing.T) {
	t.Parallel()

	t.Run("precondition follows paid orgs", func(t *testing.T) {
		t.Parallel()

		task := leadagent.DiscoveryTask(&mockOrgLister{hasPaid: false}, newMockProspectStore(), &mockGenerator{}, nil)

		ok, err := task.Precondition(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)

		task = leadagent.DiscoveryTask(&mockOrgLister{hasPaid: true}, newMockProspectStore(), &mockGenerator{}, nil)
		ok, err = task.Precondition(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("creates suggested prospects without duplicates", func(t *testing.T) {
		t.Parallel()

		org := postgres.Org{ID: uuid.New(), Name: "Growth Team", Plan: "pro"}
		store := newMockProspectStore()
		_, err := store.CreateProspect(context.Background(), postgres.Prospect{OrgID: org.ID, BusinessName: "Acme Bakery"})
		require.NoError(t, err)

		gen := &mockGenerator{response: "Acme Bakery\nBeta Cafe\n\nGamma Gym\n"}
		task := leadagent.DiscoveryTask(&mockOrgLister{orgs: []postgres.Org{org}, hasPaid: true}, store, gen, nil)

		require.NoError(t, task.Run(context.Background()))

		prospects, err := store.ListProspects(context.Background(), org.ID, 0)
		require.NoError(t, err)

		names := make(map[string]bool, len(prospects))
		for _, p := range prospects {
			names[p.BusinessName] = true
		}
		assert.Len(t, prospects, 3, "one existing plus two new suggestions")
		assert.True(t, names["Beta Cafe"])
		assert.True(t, names["Gamma Gym"])
	})

	t.Run("skips free orgs", func(t *testing.T) {
		t.Parallel()

		org := postgres.Org{ID: uuid.New(), Name: "Free Team", Plan: "free"}
		store := newMockProspectStore()
		gen := &mockGenerator{response: "Beta Cafe"}
		task := leadagent.DiscoveryTask(&mockOrgLister{orgs: []postgres.Org{org}, hasPaid: true}, store, gen, nil)

		require.NoError(t, task.Run(context.Background()))
		assert.Zero(t, gen.calls)
	})
}

func TestNotifierTask(t *testing.T) {
	t.Parallel()

	t.Run("precondition reflects queue", func(t *testing.T) {
		t.Parallel()

		task := leadagent.NotifierTask(newMockNotificationStore(), &mockSender{}, nil)
		ok, err := task.Precondition(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)

		task = leadagent.NotifierTask(newMockNotificationStore(postgres.Notification{ID: uuid.New(), ChatID: 1}), &mockSender{}, nil)
		ok, err = task.Precondition(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delivers due messages", func(t *testing.T) {
		t.Parallel()

		first := postgres.Notification{ID: uuid.New(), ChatID: 100, Body: "reminder"}
		second := postgres.Notification{ID: uuid.New(), ChatID: 200, Body: "reminder"}
		store := newMockNotificationStore(first, second)
		sender := &mockSender{}

		task := leadagent.NotifierTask(store, sender, nil)
		require.NoError(t, task.Run(context.Background()))

		assert.ElementsMatch(t, []int64{100, 200}, sender.sent)
		assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, store.sent)
		assert.Empty(t, store.failed)
	})

	t.Run("failed delivery is recorded and does not block others", func(t *testing.T) {
		t.Parallel()

		blocked := postgres.Notification{ID: uuid.New(), ChatID: 666, Body: "reminder"}
		healthy := postgres.Notification{ID: uuid.New(), ChatID: 100, Body: "reminder"}
		store := newMockNotificationStore(blocked, healthy)
		sender := &mockSender{failChat: 666}

		task := leadagent.NotifierTask(store, sender, nil)
		err := task.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2")

		assert.Equal(t, []int64{100}, sender.sent)
		assert.Equal(t, []uuid.UUID{healthy.ID}, store.sent)
		assert.Contains(t, store.failed[blocked.ID], "blocked")
	})
}
