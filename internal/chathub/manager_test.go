package chathub_test

import (
	"context"
	"errors"
	"moodmingle/backend/internal/chathub"
	"moodmingle/backend/internal/models"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHub(t *testing.T) (*chathub.ManagerService, *MockStorage) {
	t.Helper()
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil, zerolog.Nop())
	t.Cleanup(hub.Stop)
	return hub, storageMock
}

func joined(t *testing.T, hub *chathub.ManagerService, id string, room string, userID uint) *MockClient {
	t.Helper()
	c := newMockClient(id, 0)
	hub.Register(c)
	hub.HandleEvent(context.Background(), c, inbound(t, models.EventJoinRoom, map[string]any{"roomId": room, "userId": userID}))
	return c
}

func TestJoinRoom_LeavesPreviousRoom(t *testing.T) {
	hub, _ := newHub(t)
	c := joined(t, hub, "c1", "happy", 1)
	assert.Equal(t, 1, hub.RoomSize("happy"))

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventJoinRoom, "sad"))

	assert.Equal(t, 0, hub.RoomSize("happy"))
	assert.Equal(t, 1, hub.RoomSize("sad"))
	assert.Equal(t, "sad", c.Session().RoomID())
	assert.Nil(t, c.Session().UserID(), "a bare room id join carries no user id")
	assert.Equal(t, uint(1), c.Session().ChannelUser(), "a bare join keeps the notification binding")
}

func TestJoinRoom_NormalizesAndRequiresRoom(t *testing.T) {
	hub, _ := newHub(t)
	c := newMockClient("c1", 0)
	hub.Register(c)

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventJoinRoom, map[string]any{"roomId": " Chill "}))
	assert.Equal(t, "chill", c.Session().RoomID())

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventJoinRoom, map[string]any{"userId": 3}))
	env := c.expect(t, models.EventError)
	assert.Equal(t, "Room ID is required", env.Data.(models.ErrorPayload).Message)
	assert.Equal(t, "chill", c.Session().RoomID(), "a failed join keeps the current room")
}

func TestDisconnect_UserLeftOnlyInSameRoom(t *testing.T) {
	hub, _ := newHub(t)
	a := joined(t, hub, "a", "happy", 1)
	b := joined(t, hub, "b", "happy", 2)
	other := joined(t, hub, "c", "sad", 3)

	hub.Unregister(a)

	env := b.expect(t, models.EventUserLeft)
	left := env.Data.(models.UserLeft)
	require.NotNil(t, left.UserID)
	assert.Equal(t, uint(1), *left.UserID)

	other.expectNothing(t)
	a.expectNothing(t)
	assert.True(t, a.closed.Load())
	assert.Equal(t, 1, hub.RoomSize("happy"))

	hub.Unregister(a)
	b.expectNothing(t)
}

func TestRun_UnregisterChannel(t *testing.T) {
	hub, _ := newHub(t)
	a := joined(t, hub, "a", "chill", 1)
	b := joined(t, hub, "b", "chill", 2)

	go hub.Run()
	hub.UnregisterCh <- a

	b.expect(t, models.EventUserLeft)
	assert.Eventually(t, func() bool { return hub.RoomSize("chill") == 1 }, time.Second, 10*time.Millisecond)
}

func TestDisconnect_WithoutRoomIsSilent(t *testing.T) {
	hub, _ := newHub(t)
	a := newMockClient("a", 0)
	hub.Register(a)
	b := joined(t, hub, "b", "happy", 2)

	hub.Unregister(a)
	b.expectNothing(t)
}

func TestSendMessage_EchoesToEveryMember(t *testing.T) {
	hub, storageMock := newHub(t)
	storageMock.On("SaveMessage", mock.Anything, mock.AnythingOfType("*models.Message")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Message).ID = 77
		}).
		Return(nil)
	storageMock.On("GetUserPublicInfo", mock.Anything, uint(1)).
		Return(&models.PublicInfo{Username: "one", Avatar: "https://a/1.png"}, nil)

	u1 := joined(t, hub, "u1", "chill", 1)
	u2 := joined(t, hub, "u2", "chill", 2)
	outsider := joined(t, hub, "u3", "happy", 3)

	hub.HandleEvent(context.Background(), u1, inbound(t, models.EventSendMessage, map[string]any{
		"roomId": "chill", "userId": 1, "user": "one", "text": "hi", "time": "12:00",
	}))

	first := u1.expect(t, models.EventReceiveMessage).Data.(models.MessageView)
	second := u2.expect(t, models.EventReceiveMessage).Data.(models.MessageView)
	outsider.expectNothing(t)

	assert.Equal(t, uint(77), first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hi", second.Text)
	assert.Equal(t, "chill", second.RoomID)
	assert.Equal(t, "12:00", second.Time)
	require.NotNil(t, second.Avatar)
	assert.Equal(t, "https://a/1.png", *second.Avatar)
	storageMock.AssertExpectations(t)
}

func TestSendMessage_SanitizesBeforePersisting(t *testing.T) {
	hub, storageMock := newHub(t)
	storageMock.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.RoomID == "romantic" && m.User == "Anonymous" && m.Text == "hello" && m.UserID == 5
	})).Return(nil)
	storageMock.On("GetUserPublicInfo", mock.Anything, uint(5)).Return(nil, nil)

	c := joined(t, hub, "c", "romantic", 5)
	hub.HandleEvent(context.Background(), c, inbound(t, models.EventSendMessage, map[string]any{
		"roomId": "ROMANTIC", "userId": "5", "text": "  hello ",
	}))

	msg := c.expect(t, models.EventReceiveMessage).Data.(models.MessageView)
	assert.Nil(t, msg.Avatar, "unknown users broadcast without avatar")
	storageMock.AssertExpectations(t)
}

func TestSendMessage_PaddedRoomMatchesJoin(t *testing.T) {
	hub, storageMock := newHub(t)
	storageMock.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.RoomID == "happy"
	})).Return(nil)
	storageMock.On("GetUserPublicInfo", mock.Anything, uint(1)).Return(nil, nil)

	c := joined(t, hub, "c", " Happy ", 1)
	require.Equal(t, "happy", c.Session().RoomID())

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventSendMessage, map[string]any{
		"roomId": " Happy ", "userId": 1, "text": "hi",
	}))

	msg := c.expect(t, models.EventReceiveMessage).Data.(models.MessageView)
	assert.Equal(t, "happy", msg.RoomID)
	storageMock.AssertExpectations(t)
}

func TestSendMessage_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{"unknown room", map[string]any{"roomId": "angry", "userId": 1, "text": "hi"}, "Invalid mood ID"},
		{"missing room", map[string]any{"userId": 1, "text": "hi"}, "Mood ID is required and must be a string"},
		{"too long", map[string]any{"roomId": "happy", "userId": 1, "text": strings.Repeat("a", 501)}, "Message text cannot exceed 500 characters"},
		{"empty text", map[string]any{"roomId": "happy", "userId": 1, "text": "   "}, "Message text is required and must be a string"},
		{"bad user", map[string]any{"roomId": "happy", "userId": "nobody", "text": "hi"}, "Invalid user ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, storageMock := newHub(t)
			sender := joined(t, hub, "s", "happy", 1)
			peer := joined(t, hub, "p", "happy", 2)

			hub.HandleEvent(context.Background(), sender, inbound(t, models.EventSendMessage, tt.payload))

			env := sender.expect(t, models.EventError)
			assert.Equal(t, tt.message, env.Data.(models.ErrorPayload).Message)
			peer.expectNothing(t)
			storageMock.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
		})
	}
}

func TestSendMessage_ExactlyFiveHundredCharacters(t *testing.T) {
	hub, storageMock := newHub(t)
	storageMock.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
	storageMock.On("GetUserPublicInfo", mock.Anything, uint(1)).Return(nil, nil)

	c := joined(t, hub, "c", "happy", 1)
	hub.HandleEvent(context.Background(), c, inbound(t, models.EventSendMessage, map[string]any{
		"roomId": "happy", "userId": 1, "text": strings.Repeat("a", 500),
	}))

	msg := c.expect(t, models.EventReceiveMessage).Data.(models.MessageView)
	assert.Len(t, msg.Text, 500)
}

func TestSendMessage_PersistenceFailureStaysWithSender(t *testing.T) {
	hub, storageMock := newHub(t)
	storageMock.On("SaveMessage", mock.Anything, mock.Anything).Return(errors.New("db is down"))

	sender := joined(t, hub, "s", "sad", 1)
	peer := joined(t, hub, "p", "sad", 2)

	hub.HandleEvent(context.Background(), sender, inbound(t, models.EventSendMessage, map[string]any{
		"roomId": "sad", "userId": 1, "text": "anyone?",
	}))

	env := sender.expect(t, models.EventError)
	assert.Equal(t, "Failed to send message", env.Data.(models.ErrorPayload).Message)
	peer.expectNothing(t)
	storageMock.AssertNotCalled(t, "GetUserPublicInfo", mock.Anything, mock.Anything)
}

func TestTyping_ForwardedToOthersOnly(t *testing.T) {
	hub, _ := newHub(t)
	a := joined(t, hub, "a", "energetic", 1)
	b := joined(t, hub, "b", "energetic", 2)

	hub.HandleEvent(context.Background(), a, inbound(t, models.EventTypingStart, map[string]any{
		"roomId": "energetic", "userId": 1, "username": "one",
	}))
	start := b.expect(t, models.EventUserTyping).Data.(models.TypingBroadcast)
	assert.JSONEq(t, `1`, string(start.UserID))
	assert.JSONEq(t, `"one"`, string(start.Username))
	a.expectNothing(t)

	hub.HandleEvent(context.Background(), a, inbound(t, models.EventTypingStop, map[string]any{
		"roomId": "energetic", "userId": 1,
	}))
	stop := b.expect(t, models.EventUserStoppedTyping).Data.(models.TypingBroadcast)
	assert.JSONEq(t, `1`, string(stop.UserID))
	assert.Empty(t, stop.Username)
	a.expectNothing(t)
}

func TestNotifyUser_TargetsBoundConnections(t *testing.T) {
	hub, _ := newHub(t)
	viaQuery := newMockClient("q", 7)
	hub.Register(viaQuery)
	viaJoin := joined(t, hub, "j", "happy", 7)
	stranger := joined(t, hub, "s", "happy", 8)

	event := models.UserChannel(models.ChannelHeartNotification, 7)
	hub.NotifyUser(7, event, map[string]any{"type": "heart"})

	viaQuery.expect(t, event)
	viaJoin.expect(t, event)
	stranger.expectNothing(t)
}

func TestNotifyUser_RebindOnJoin(t *testing.T) {
	hub, _ := newHub(t)
	c := joined(t, hub, "c", "happy", 1)
	hub.HandleEvent(context.Background(), c, inbound(t, models.EventJoinRoom, map[string]any{"roomId": "sad", "userId": 2}))

	hub.NotifyUser(1, "private_chat_request_1", nil)
	c.expectNothing(t)

	hub.NotifyUser(2, "private_chat_request_2", nil)
	c.expect(t, "private_chat_request_2")
}

func TestSendHeart_ConfirmsToSender(t *testing.T) {
	hub, _ := newHub(t)
	hearts := new(MockHeartSender)
	hub.SetHeartSender(hearts)
	hearts.On("SendHeart", mock.Anything, mock.Anything).Return(&models.HeartNotification{SenderID: 1, ReceiverID: 2}, nil).Once()
	hearts.On("SendHeart", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	c := joined(t, hub, "c", "happy", 1)

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventSendHeart, map[string]any{"senderId": 1, "receiverId": 2}))
	sent := c.expect(t, models.EventHeartSent).Data.(models.HeartSent)
	assert.Equal(t, uint(2), sent.ReceiverID)
	assert.True(t, sent.Success)

	hub.HandleEvent(context.Background(), c, inbound(t, models.EventSendHeart, map[string]any{"senderId": 1, "receiverId": 2}))
	env := c.expect(t, models.EventError)
	assert.Equal(t, "Failed to send heart", env.Data.(models.ErrorPayload).Message)
	hearts.AssertExpectations(t)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := newHub(t)
	go hub.Run()

	slow := joined(t, hub, "slow", "chill", 1)
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- models.Envelope{Event: "filler"}
	}

	hub.BroadcastToRoom("chill", models.Envelope{Event: "overflow"}, nil)

	assert.Eventually(t, func() bool { return slow.closed.Load() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.RoomSize("chill"))
}
