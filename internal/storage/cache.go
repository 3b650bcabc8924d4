package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"moodmingle/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

func publicInfoKey(id uint) string {
	return fmt.Sprintf("user:public:%d", id)
}

// cachedPublicInfo is best-effort: any redis failure is a miss.
func (s *Service) cachedPublicInfo(ctx context.Context, id uint) (*models.PublicInfo, bool) {
	if s.Redis == nil {
		return nil, false
	}

	raw, err := s.Redis.Get(ctx, publicInfoKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", id).Msg("public info cache read failed")
		return nil, false
	}

	var info models.PublicInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, false
	}
	return &info, true
}

func (s *Service) cachePublicInfo(ctx context.Context, id uint, info *models.PublicInfo) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, publicInfoKey(id), raw, s.CacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Uint("user_id", id).Msg("public info cache write failed")
	}
}

func (s *Service) invalidatePublicInfo(ctx context.Context, id uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, publicInfoKey(id)).Err(); err != nil {
		s.log.Warn().Err(err).Uint("user_id", id).Msg("public info cache invalidation failed")
	}
}
