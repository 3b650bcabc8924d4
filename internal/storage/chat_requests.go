package storage

import (
	"context"
	"fmt"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindChatRequestBetween looks for a request between a and b in either direction.
func (s *Service) FindChatRequestBetween(ctx context.Context, a, b uint) (*models.PrivateChatRequest, error) {
	var req models.PrivateChatRequest
	found, err := notFoundAsNil(s.DB.WithContext(ctx).
		Where("(requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)", a, b, b, a).
		Order("id DESC").
		First(&req).Error)
	if err != nil {
		return nil, fmt.Errorf("find chat request %d<->%d: %w", a, b, err)
	}
	if !found {
		return nil, nil
	}
	return &req, nil
}

// CreateChatRequest inserts a pending request. A duplicate pair yields common.ErrConflict.
func (s *Service) CreateChatRequest(ctx context.Context, req *models.PrivateChatRequest) error {
	if req.Status == "" {
		req.Status = models.ChatRequestPending
	}
	if err := s.DB.WithContext(ctx).Create(req).Error; err != nil {
		return translateWriteError(fmt.Sprintf("create chat request %d->%d", req.RequesterID, req.RequestedID), err)
	}
	return nil
}

// ReopenChatRequest turns a finished request row back into a fresh pending one,
// possibly reversing its direction.
func (s *Service) ReopenChatRequest(ctx context.Context, id, requesterID, requestedID uint) (*models.PrivateChatRequest, error) {
	db := s.DB.WithContext(ctx)
	res := db.Model(&models.PrivateChatRequest{}).
		Where("id = ? AND status <> ?", id, models.ChatRequestPending).
		Updates(map[string]any{
			"requester_id": requesterID,
			"requested_id": requestedID,
			"status":       models.ChatRequestPending,
			"created_at":   time.Now().UTC(),
			"responded_at": nil,
		})
	if res.Error != nil {
		return nil, translateWriteError(fmt.Sprintf("reopen chat request %d", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("reopen chat request %d: %w", id, common.ErrConflict)
	}

	var req models.PrivateChatRequest
	if err := db.First(&req, id).Error; err != nil {
		return nil, fmt.Errorf("reload chat request %d: %w", id, err)
	}
	return &req, nil
}

// RespondChatRequest moves a pending request to status, but only when responderID is its target.
// A missing id, a wrong responder and an already answered request all yield common.ErrNotFound.
func (s *Service) RespondChatRequest(ctx context.Context, id, responderID uint, status models.ChatRequestStatus) (*models.PrivateChatRequest, error) {
	return respondChatRequest(s.DB.WithContext(ctx), id, responderID, status)
}

// AcceptChatRequest accepts a pending request and opens the pair's private room in one
// transaction. If the room cannot be created the request stays pending.
func (s *Service) AcceptChatRequest(ctx context.Context, id, responderID uint) (*models.PrivateChatRequest, *models.PrivateChatRoom, error) {
	var (
		req  *models.PrivateChatRequest
		room *models.PrivateChatRoom
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = respondChatRequest(tx, id, responderID, models.ChatRequestAccepted); err != nil {
			return err
		}
		room, err = createPrivateRoom(tx, req.RequesterID, req.RequestedID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return req, room, nil
}

func respondChatRequest(db *gorm.DB, id, responderID uint, status models.ChatRequestStatus) (*models.PrivateChatRequest, error) {
	res := db.Model(&models.PrivateChatRequest{}).
		Where("id = ? AND requested_id = ? AND status = ?", id, responderID, models.ChatRequestPending).
		Updates(map[string]any{
			"status":       status,
			"responded_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("respond chat request %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("respond chat request %d: %w", id, common.ErrNotFound)
	}

	var req models.PrivateChatRequest
	if err := db.First(&req, id).Error; err != nil {
		return nil, fmt.Errorf("reload chat request %d: %w", id, err)
	}
	return &req, nil
}

// ListPendingRequests returns requests still waiting on requestedID, newest first.
func (s *Service) ListPendingRequests(ctx context.Context, requestedID uint, limit int) ([]models.ChatRequestView, error) {
	requests := []models.ChatRequestView{}
	err := s.DB.WithContext(ctx).
		Table("private_chat_requests AS r").
		Select("r.id, r.requester_id, u.username AS requester_username, u.avatar AS requester_avatar, r.status, r.created_at").
		Joins("LEFT JOIN users u ON u.id = r.requester_id").
		Where("r.requested_id = ? AND r.status = ?", requestedID, models.ChatRequestPending).
		Order("r.created_at DESC, r.id DESC").
		Limit(limit).
		Scan(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("list pending requests for %d: %w", requestedID, err)
	}
	return requests, nil
}

func (s *Service) ClearPendingRequests(ctx context.Context, requestedID uint) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("requested_id = ? AND status = ?", requestedID, models.ChatRequestPending).
		Delete(&models.PrivateChatRequest{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear pending requests for %d: %w", requestedID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) FindActivePrivateRoom(ctx context.Context, a, b uint) (*models.PrivateChatRoom, error) {
	var room models.PrivateChatRoom
	found, err := notFoundAsNil(s.DB.WithContext(ctx).
		Where("name = ? AND is_active = ?", models.PrivateRoomName(a, b), true).
		Take(&room).Error)
	if err != nil {
		return nil, fmt.Errorf("find private room %d<->%d: %w", a, b, err)
	}
	if !found {
		return nil, nil
	}
	return &room, nil
}

// CreatePrivateRoom creates the pair's room, or reactivates it if the name already exists.
func (s *Service) CreatePrivateRoom(ctx context.Context, a, b uint) (*models.PrivateChatRoom, error) {
	return createPrivateRoom(s.DB.WithContext(ctx), a, b)
}

func createPrivateRoom(db *gorm.DB, a, b uint) (*models.PrivateChatRoom, error) {
	if a > b {
		a, b = b, a
	}
	room := models.PrivateChatRoom{
		Name:     models.PrivateRoomName(a, b),
		User1ID:  a,
		User2ID:  b,
		IsActive: true,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"is_active": true}),
	}).Create(&room).Error
	if err != nil {
		return nil, fmt.Errorf("create private room %s: %w", room.Name, err)
	}

	var stored models.PrivateChatRoom
	if err := db.Where("name = ?", room.Name).Take(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload private room %s: %w", room.Name, err)
	}
	return &stored, nil
}
