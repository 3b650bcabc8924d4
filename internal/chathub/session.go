package chathub

import "sync"

// Session is the mutable state of one connection: the room it is in and the user
// id it reported when joining. The user id is self-reported and never checked
// against stored users; anything exposed beyond a trusted client must not rely on it.
//
// channelUser is the user whose notification channels the connection receives.
// It is set from ?userId= at connect time or by a join carrying a user id.
type Session struct {
	mu          sync.RWMutex
	roomID      string
	userID      *uint
	channelUser uint
}

// NewSession returns a session bound to channelUser's notifications (0 for none).
func NewSession(channelUser uint) *Session {
	return &Session{channelUser: channelUser}
}

func (s *Session) RoomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

// UserID returns the user id reported at join time, nil when none was given.
func (s *Session) UserID() *uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == nil {
		return nil
	}
	id := *s.userID
	return &id
}

func (s *Session) ChannelUser() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelUser
}

// join records the new room and user, returning the previous room and channel user.
func (s *Session) join(roomID string, userID *uint) (prevRoom string, prevChannel uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevRoom, prevChannel = s.roomID, s.channelUser
	s.roomID = roomID
	s.userID = userID
	if userID != nil {
		s.channelUser = *userID
	}
	return prevRoom, prevChannel
}
