package social

import (
	"context"
	"errors"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/metrics"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
)

const (
	StatusPending  = "pending"
	StatusExisting = "existing"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"

	msgAlreadyPending  = "Chat request already pending"
	msgRequestNotFound = "Chat request not found"
	msgRequestFailed   = "Failed to send chat request"
	msgRespondFailed   = "Failed to respond to chat request"
	msgInvalidDecision = "Response must be 'accept' or 'reject'"
	msgRequestYourself = "Cannot send chat request to yourself"
	decisionAccept     = "accept"
	decisionReject     = "reject"
)

// ChatRequestInput is the body of a chat request.
type ChatRequestInput struct {
	RequesterID any `json:"requesterId"`
	RequestedID any `json:"requestedId"`
}

// ChatResponseInput is the body of a response to a chat request.
type ChatResponseInput struct {
	RequestID any `json:"requestId"`
	UserID    any `json:"userId"`
	Response  any `json:"response"`
}

// RequestResult is either a new pending request or the already open room of the pair.
type RequestResult struct {
	Status    string `json:"status"`
	RequestID uint   `json:"requestId,omitempty"`
	RoomID    string `json:"roomId,omitempty"`
}

type RespondResult struct {
	Status string `json:"status"`
	RoomID string `json:"roomId,omitempty"`
}

// RequestChat opens a private chat request from requester to requested.
//
// A pending request between the pair, in either direction, blocks a new one.
// An accepted request with a live room short-circuits to that room.
// A rejected request, or an accepted one whose room is gone, is reopened as pending.
func (s *Service) RequestChat(ctx context.Context, in ChatRequestInput) (*RequestResult, error) {
	requesterID, err := validation.UserID(in.RequesterID)
	if err != nil {
		return nil, err
	}
	requestedID, err := validation.UserID(in.RequestedID)
	if err != nil {
		return nil, err
	}
	if requesterID == requestedID {
		return nil, common.Validation(msgRequestYourself)
	}

	existing, err := s.store.FindChatRequestBetween(ctx, requesterID, requestedID)
	if err != nil {
		return nil, common.Internal(msgRequestFailed, err)
	}

	if existing != nil && existing.Status == models.ChatRequestPending {
		metrics.ChatRequests.WithLabelValues("duplicate").Inc()
		return nil, common.Validation(msgAlreadyPending)
	}

	if existing != nil && existing.Status == models.ChatRequestAccepted {
		room, err := s.store.FindActivePrivateRoom(ctx, requesterID, requestedID)
		if err != nil {
			return nil, common.Internal(msgRequestFailed, err)
		}
		if room != nil {
			metrics.ChatRequests.WithLabelValues(StatusExisting).Inc()
			return &RequestResult{Status: StatusExisting, RequestID: existing.ID, RoomID: room.Name}, nil
		}
	}

	var req *models.PrivateChatRequest
	if existing == nil {
		req = &models.PrivateChatRequest{RequesterID: requesterID, RequestedID: requestedID, Status: models.ChatRequestPending}
		err = s.store.CreateChatRequest(ctx, req)
	} else {
		req, err = s.store.ReopenChatRequest(ctx, existing.ID, requesterID, requestedID)
	}
	if errors.Is(err, common.ErrConflict) {
		// Інший запит для цієї пари з'явився між пошуком і записом.
		metrics.ChatRequests.WithLabelValues("duplicate").Inc()
		return nil, common.Validation(msgAlreadyPending)
	}
	if err != nil {
		return nil, common.Internal(msgRequestFailed, err)
	}
	metrics.ChatRequests.WithLabelValues(StatusPending).Inc()

	requester := s.lookupPublicInfo(ctx, requesterID)

	s.notifier.NotifyUser(requestedID, models.UserChannel(models.ChannelPrivateChatRequest, requestedID), models.ChatRequestNotification{
		Type:              "private_chat_request",
		RequestID:         req.ID,
		RequesterID:       requesterID,
		RequesterUsername: nameOf(requester),
		RequesterAvatar:   avatarOf(requester),
		CreatedAt:         req.CreatedAt,
	})

	return &RequestResult{Status: StatusPending, RequestID: req.ID}, nil
}

// RespondChat accepts or rejects a pending request addressed to the responding user.
// Unknown ids and requests addressed to someone else are both reported as not found.
func (s *Service) RespondChat(ctx context.Context, in ChatResponseInput) (*RespondResult, error) {
	requestID, err := validation.RequestID(in.RequestID)
	if err != nil {
		return nil, err
	}
	userID, err := validation.UserID(in.UserID)
	if err != nil {
		return nil, err
	}

	decision, _ := in.Response.(string)
	if decision != decisionAccept && decision != decisionReject {
		return nil, common.Validation(msgInvalidDecision)
	}

	var (
		req  *models.PrivateChatRequest
		room *models.PrivateChatRoom
	)
	if decision == decisionAccept {
		// Статус і кімната пишуться в одній транзакції.
		req, room, err = s.store.AcceptChatRequest(ctx, requestID, userID)
	} else {
		req, err = s.store.RespondChatRequest(ctx, requestID, userID, models.ChatRequestRejected)
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NotFound(msgRequestNotFound)
	}
	if err != nil {
		return nil, common.Internal(msgRespondFailed, err)
	}

	requester, requested := s.resolvePair(ctx, req.RequesterID, req.RequestedID)

	if room == nil {
		metrics.ChatRequests.WithLabelValues(StatusRejected).Inc()
		s.notifier.NotifyUser(req.RequesterID, models.UserChannel(models.ChannelPrivateChatRejected, req.RequesterID), models.ChatRejectedNotification{
			Type:              "private_chat_rejected",
			RequestID:         req.ID,
			RequestedID:       req.RequestedID,
			RequestedUsername: nameOf(requested),
		})
		return &RespondResult{Status: StatusRejected}, nil
	}

	metrics.ChatRequests.WithLabelValues(StatusAccepted).Inc()

	s.notifier.NotifyUser(req.RequesterID, models.UserChannel(models.ChannelPrivateChatAccepted, req.RequesterID), models.ChatAcceptedNotification{
		Type:          "private_chat_accepted",
		RequestID:     req.ID,
		RoomID:        room.Name,
		OtherUserID:   req.RequestedID,
		OtherUsername: nameOf(requested),
	})
	s.notifier.NotifyUser(req.RequestedID, models.UserChannel(models.ChannelPrivateChatAccepted, req.RequestedID), models.ChatAcceptedNotification{
		Type:          "private_chat_accepted",
		RequestID:     req.ID,
		RoomID:        room.Name,
		OtherUserID:   req.RequesterID,
		OtherUsername: nameOf(requester),
	})

	s.log.Info().Uint("request_id", req.ID).Str("room", room.Name).Msg("private chat accepted")
	return &RespondResult{Status: StatusAccepted, RoomID: room.Name}, nil
}

// ListPending returns requests still waiting on the user, newest first.
func (s *Service) ListPending(ctx context.Context, rawUserID any) ([]models.ChatRequestView, error) {
	userID, err := validation.UserID(rawUserID)
	if err != nil {
		return nil, err
	}
	requests, err := s.store.ListPendingRequests(ctx, userID, config.PendingRequestLimit)
	if err != nil {
		return nil, common.Internal("Failed to fetch chat requests", err)
	}
	return requests, nil
}

// ClearPending deletes every pending request addressed to the user.
func (s *Service) ClearPending(ctx context.Context, rawUserID any) (int64, error) {
	userID, err := validation.UserID(rawUserID)
	if err != nil {
		return 0, err
	}
	n, err := s.store.ClearPendingRequests(ctx, userID)
	if err != nil {
		return 0, common.Internal("Failed to clear chat requests", err)
	}
	return n, nil
}
