// Package social coordinates hearts and the private chat handshake. Results are
// delivered on user-scoped channels through a Notifier, independent of room membership.
package social

import (
	"context"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const unknownUserName = "Someone"

// Notifier delivers an event to every connection bound to a user id.
type Notifier interface {
	NotifyUser(userID uint, event string, payload any)
}

type Service struct {
	store    storage.Storage
	notifier Notifier
	log      zerolog.Logger
}

func NewService(store storage.Storage, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "social").Logger(),
	}
}

// resolvePair looks up two users' public info concurrently. Lookups are best-effort:
// each failure is logged on its own and only that side stays nil.
func (s *Service) resolvePair(ctx context.Context, a, b uint) (*models.PublicInfo, *models.PublicInfo) {
	var infoA, infoB *models.PublicInfo

	// Без WithContext: помилка одного пошуку не повинна скасовувати інший.
	var g errgroup.Group
	g.Go(func() error {
		infoA = s.lookupPublicInfo(ctx, a)
		return nil
	})
	g.Go(func() error {
		infoB = s.lookupPublicInfo(ctx, b)
		return nil
	})
	_ = g.Wait()
	return infoA, infoB
}

func (s *Service) lookupPublicInfo(ctx context.Context, id uint) *models.PublicInfo {
	info, err := s.store.GetUserPublicInfo(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", id).Msg("public info lookup failed")
		return nil
	}
	return info
}

func nameOf(info *models.PublicInfo) string {
	if info == nil || info.Username == "" {
		return unknownUserName
	}
	return info.Username
}

func avatarOf(info *models.PublicInfo) *string {
	if info == nil || info.Avatar == "" {
		return nil
	}
	avatar := info.Avatar
	return &avatar
}
