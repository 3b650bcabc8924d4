package chathub

import (
	"context"
	"moodmingle/backend/internal/metrics"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/storage"
	"sync"

	"github.com/rs/zerolog"
)

type clientSet map[Client]struct{}

// ManagerService is the realtime hub. It tracks live connections, which mood room
// each one is in and which user channels each one receives.
type ManagerService struct {
	mu      sync.RWMutex
	clients clientSet
	rooms   map[string]clientSet
	users   map[uint]clientSet

	// UnregisterCh receives connections whose read pump ended or whose send buffer overflowed.
	UnregisterCh chan Client

	// notifyCh carries user notifications that arrived through the relay.
	notifyCh chan models.UserNotification

	Storage storage.Storage
	hearts  HeartSender
	relay   *RedisRelay
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManagerService creates the hub. relay may be nil, in which case user
// notifications are delivered in-process only.
func NewManagerService(s storage.Storage, relay *RedisRelay, log zerolog.Logger) *ManagerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ManagerService{
		clients:      make(clientSet),
		rooms:        make(map[string]clientSet),
		users:        make(map[uint]clientSet),
		UnregisterCh: make(chan Client, 64),
		notifyCh:     make(chan models.UserNotification, 256),
		Storage:      s,
		relay:        relay,
		log:          log.With().Str("component", "chathub").Logger(),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SetHeartSender wires the handler for send_heart events.
func (m *ManagerService) SetHeartSender(h HeartSender) {
	m.hearts = h
}

// Context is cancelled when the hub stops. Event handlers run under it.
func (m *ManagerService) Context() context.Context {
	return m.ctx
}

// Run processes unregistrations and relayed notifications until Stop is called.
func (m *ManagerService) Run() {
	if m.relay != nil {
		go m.relay.Listen(m.ctx, m.notifyCh, m.log)
	}

	for {
		select {
		case c := <-m.UnregisterCh:
			m.Unregister(c)
		case n := <-m.notifyCh:
			m.deliverToUser(n)
		case <-m.ctx.Done():
			return
		}
	}
}

// Stop ends Run and the relay listener.
func (m *ManagerService) Stop() {
	m.cancel()
}

// Register adds a connection and binds it to its channel user, if any.
func (m *ManagerService) Register(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c]; ok {
		return
	}
	m.clients[c] = struct{}{}
	if uid := c.Session().ChannelUser(); uid != 0 {
		addTo(m.users, uid, c)
	}
	metrics.WSConnections.Inc()
	m.log.Debug().Str("conn_id", c.GetID()).Uint("channel_user", c.Session().ChannelUser()).Msg("client registered")
}

// Unregister removes a connection, closes it and tells its last room that the user left.
// Calling it more than once for the same connection is a no-op.
func (m *ManagerService) Unregister(c Client) {
	m.mu.Lock()
	if _, ok := m.clients[c]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, c)

	session := c.Session()
	roomID := session.RoomID()
	if roomID != "" {
		removeFrom(m.rooms, roomID, c)
	}
	if uid := session.ChannelUser(); uid != 0 {
		removeFrom(m.users, uid, c)
	}
	m.mu.Unlock()

	c.Close()
	metrics.WSConnections.Dec()

	if roomID != "" {
		m.BroadcastToRoom(roomID, models.Envelope{
			Event: models.EventUserLeft,
			Data:  models.UserLeft{UserID: session.UserID()},
		}, nil)
	}
	m.log.Debug().Str("conn_id", c.GetID()).Str("room", roomID).Msg("client unregistered")
}

// disconnect queues c for unregistration without blocking the caller.
func (m *ManagerService) disconnect(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.ctx.Done():
	}
}

// JoinRoom moves c into roomID, leaving its previous room first. A non-nil userID
// also rebinds the connection's notification channels to that user.
func (m *ManagerService) JoinRoom(c Client, roomID string, userID *uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c]; !ok {
		return
	}

	prevRoom, prevChannel := c.Session().join(roomID, userID)
	if prevRoom != "" {
		removeFrom(m.rooms, prevRoom, c)
	}
	addTo(m.rooms, roomID, c)

	if userID != nil && *userID != prevChannel {
		if prevChannel != 0 {
			removeFrom(m.users, prevChannel, c)
		}
		addTo(m.users, *userID, c)
	}
}

// RoomSize returns the number of connections currently in roomID.
func (m *ManagerService) RoomSize(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}

// BroadcastToRoom sends env to every member of roomID except the given connection.
func (m *ManagerService) BroadcastToRoom(roomID string, env models.Envelope, except Client) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for c := range m.rooms[roomID] {
		if c == except {
			continue
		}
		m.trySend(c, env)
	}
}

// SendTo delivers env to a single registered connection.
func (m *ManagerService) SendTo(c Client, env models.Envelope) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.clients[c]; ok {
		m.trySend(c, env)
	}
}

// NotifyUser sends an event on a user-scoped channel. With a relay configured the
// notification goes through redis so every instance delivers it to its own connections.
func (m *ManagerService) NotifyUser(userID uint, event string, payload any) {
	n := models.UserNotification{
		UserID:   userID,
		Envelope: models.Envelope{Event: event, Data: payload},
	}

	if m.relay != nil {
		err := m.relay.Publish(m.ctx, n)
		if err == nil {
			return
		}
		m.log.Warn().Err(err).Uint("user_id", userID).Str("event", event).Msg("relay publish failed, delivering locally")
	}
	m.deliverToUser(n)
}

func (m *ManagerService) deliverToUser(n models.UserNotification) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for c := range m.users[n.UserID] {
		m.trySend(c, n.Envelope)
	}
}

// trySend must be called with m.mu held. A full send buffer schedules the client for removal.
func (m *ManagerService) trySend(c Client, env models.Envelope) {
	select {
	case c.GetSendChannel() <- env:
	default:
		m.log.Warn().Str("conn_id", c.GetID()).Str("event", env.Event).Msg("send buffer full, dropping client")
		go m.disconnect(c)
	}
}

func addTo[K comparable](index map[K]clientSet, key K, c Client) {
	set, ok := index[key]
	if !ok {
		set = make(clientSet)
		index[key] = set
	}
	set[c] = struct{}{}
}

func removeFrom[K comparable](index map[K]clientSet, key K, c Client) {
	if set, ok := index[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(index, key)
		}
	}
}
