package chathub_test

import (
	"context"
	"encoding/json"
	"moodmingle/backend/internal/chathub"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/storage"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage mocks the storage methods the hub calls. Any other method panics.
type MockStorage struct {
	storage.Storage
	mock.Mock
}

func (m *MockStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStorage) GetUserPublicInfo(ctx context.Context, id uint) (*models.PublicInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*models.PublicInfo)
	return info, args.Error(1)
}

// MockHeartSender mocks the social coordinator's heart handling.
type MockHeartSender struct {
	mock.Mock
}

func (m *MockHeartSender) SendHeart(ctx context.Context, p models.HeartPayload) (*models.HeartNotification, error) {
	args := m.Called(ctx, p)
	heart, _ := args.Get(0).(*models.HeartNotification)
	return heart, args.Error(1)
}

type MockClient struct {
	id      string
	session *chathub.Session
	send    chan models.Envelope
	closed  atomic.Bool
}

func newMockClient(id string, channelUser uint) *MockClient {
	return &MockClient{
		id:      id,
		session: chathub.NewSession(channelUser),
		send:    make(chan models.Envelope, 16),
	}
}

func (c *MockClient) GetID() string                          { return c.id }
func (c *MockClient) Session() *chathub.Session              { return c.session }
func (c *MockClient) GetSendChannel() chan<- models.Envelope { return c.send }
func (c *MockClient) Run()                                   {}
func (c *MockClient) Close()                                 { c.closed.Store(true) }

// expect waits for the next envelope and checks its event name.
func (c *MockClient) expect(t *testing.T, event string) models.Envelope {
	t.Helper()
	select {
	case env := <-c.send:
		require.Equal(t, event, env.Event)
		return env
	case <-time.After(time.Second):
		t.Fatalf("client %s: no %q event received", c.id, event)
		return models.Envelope{}
	}
}

// expectNothing asserts nothing is queued for the client.
func (c *MockClient) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case env := <-c.send:
		t.Fatalf("client %s: unexpected %q event", c.id, env.Event)
	default:
	}
}

func inbound(t *testing.T, event string, data any) models.InboundEnvelope {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return models.InboundEnvelope{Event: event, Data: raw}
}
