package storage

import (
	"context"
	"errors"
	"fmt"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/models"
	"time"

	"gorm.io/gorm"
)

// CreateOrTouchUser returns the user with this username, creating it when absent.
// The bool reports whether a new row was inserted.
func (s *Service) CreateOrTouchUser(ctx context.Context, username, avatar string) (*models.User, bool, error) {
	db := s.DB.WithContext(ctx)
	now := time.Now().UTC()

	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == nil {
		if err := db.Model(&user).Update("last_active", now).Error; err != nil {
			return nil, false, fmt.Errorf("touch user %d: %w", user.ID, err)
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find user %q: %w", username, err)
	}

	if avatar == "" {
		avatar = models.DefaultAvatar(username)
	}
	user = models.User{
		Username:   username,
		Avatar:     avatar,
		Status:     models.DefaultStatus,
		LastActive: now,
	}
	if err := db.Create(&user).Error; err != nil {
		// Паралельне створення того ж імені: повертаємо існуючого.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.User
			if err := db.Where("username = ?", username).First(&existing).Error; err != nil {
				return nil, false, fmt.Errorf("reload user %q: %w", username, err)
			}
			return &existing, false, nil
		}
		return nil, false, fmt.Errorf("create user %q: %w", username, err)
	}
	return &user, true, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	found, err := notFoundAsNil(s.DB.WithContext(ctx).First(&user, id).Error)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// UpdateUserProfile applies the given columns and drops the cached public info.
func (s *Service) UpdateUserProfile(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update user %d: %w", id, common.ErrNotFound)
	}

	s.invalidatePublicInfo(ctx, id)
	return s.GetUserByID(ctx, id)
}

// GetUserPublicInfo resolves a username and avatar, read-through the redis cache when configured.
func (s *Service) GetUserPublicInfo(ctx context.Context, id uint) (*models.PublicInfo, error) {
	if info, ok := s.cachedPublicInfo(ctx, id); ok {
		return info, nil
	}

	var info models.PublicInfo
	found, err := notFoundAsNil(s.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("username", "avatar").
		Where("id = ?", id).
		Take(&info).Error)
	if err != nil {
		return nil, fmt.Errorf("get public info %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	s.cachePublicInfo(ctx, id, &info)
	return &info, nil
}

// FindUsersByMood lists users whose current mood matches and who were active since the cutoff.
func (s *Service) FindUsersByMood(ctx context.Context, moodID string, activeSince time.Time, excludeID uint, limit int) ([]models.MatchedUser, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("id, username AS name, avatar, status, current_mood_id AS mood_id").
		Where("current_mood_id = ? AND last_active > ?", moodID, activeSince)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	matches := []models.MatchedUser{}
	if err := q.Order("last_active DESC").Limit(limit).Scan(&matches).Error; err != nil {
		return nil, fmt.Errorf("match users for %s: %w", moodID, err)
	}
	return matches, nil
}

// SetUserMood updates the current mood and appends to the mood log in one transaction.
func (s *Service) SetUserMood(ctx context.Context, userID uint, moodID string) (*models.MoodLog, error) {
	entry := models.MoodLog{UserID: userID, MoodID: moodID}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"current_mood_id": moodID,
			"last_active":     time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("set mood for user %d: %w", userID, err)
	}
	return &entry, nil
}

// GetCurrentMood returns nil when the user is unknown or has not picked a mood.
func (s *Service) GetCurrentMood(ctx context.Context, userID uint) (*string, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	return user.CurrentMoodID, nil
}

func (s *Service) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create journal entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// ListJournalEntries returns a user's entries, newest first.
func (s *Service) ListJournalEntries(ctx context.Context, userID uint) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list journal for user %d: %w", userID, err)
	}
	return entries, nil
}
