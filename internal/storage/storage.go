package storage

import (
	"context"
	"errors"
	"fmt"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Storage is the persistence gateway used by the hub, the social coordinator and the REST handlers.
// Lookups of a single missing row return (nil, nil); conditional writes that match nothing
// return common.ErrNotFound; unique violations on plain inserts return common.ErrConflict.
type Storage interface {
	CreateOrTouchUser(ctx context.Context, username, avatar string) (*models.User, bool, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id uint, fields map[string]any) (*models.User, error)
	GetUserPublicInfo(ctx context.Context, id uint) (*models.PublicInfo, error)
	FindUsersByMood(ctx context.Context, moodID string, activeSince time.Time, excludeID uint, limit int) ([]models.MatchedUser, error)
	SetUserMood(ctx context.Context, userID uint, moodID string) (*models.MoodLog, error)
	GetCurrentMood(ctx context.Context, userID uint) (*string, error)

	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	ListJournalEntries(ctx context.Context, userID uint) ([]models.JournalEntry, error)

	SaveMessage(ctx context.Context, msg *models.Message) error
	GetRoomHistory(ctx context.Context, roomID string) ([]models.MessageView, error)

	UpsertHeart(ctx context.Context, senderID, receiverID uint) (*models.HeartNotification, error)
	ListHearts(ctx context.Context, receiverID uint, limit int) ([]models.HeartView, error)
	MarkHeartsRead(ctx context.Context, receiverID uint) (int64, error)
	ClearHearts(ctx context.Context, receiverID uint) (int64, error)

	FindChatRequestBetween(ctx context.Context, a, b uint) (*models.PrivateChatRequest, error)
	CreateChatRequest(ctx context.Context, req *models.PrivateChatRequest) error
	ReopenChatRequest(ctx context.Context, id, requesterID, requestedID uint) (*models.PrivateChatRequest, error)
	RespondChatRequest(ctx context.Context, id, responderID uint, status models.ChatRequestStatus) (*models.PrivateChatRequest, error)
	AcceptChatRequest(ctx context.Context, id, responderID uint) (*models.PrivateChatRequest, *models.PrivateChatRoom, error)
	ListPendingRequests(ctx context.Context, requestedID uint, limit int) ([]models.ChatRequestView, error)
	ClearPendingRequests(ctx context.Context, requestedID uint) (int64, error)

	FindActivePrivateRoom(ctx context.Context, a, b uint) (*models.PrivateChatRoom, error)
	CreatePrivateRoom(ctx context.Context, a, b uint) (*models.PrivateChatRoom, error)
}

// Service implements Storage on gorm. Redis is optional and only backs the public info cache.
type Service struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
	log      zerolog.Logger
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		DB:       db,
		Redis:    rdb,
		CacheTTL: cacheTTL,
		log:      log.With().Str("component", "storage").Logger(),
	}
}

// Open connects gorm to the configured driver and applies the pool settings.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey on every driver.
func Open(cfg config.DatabaseConfig, silent bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	level := gormlogger.Warn
	if silent {
		level = gormlogger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MoodLog{},
		&models.JournalEntry{},
		&models.Message{},
		&models.HeartNotification{},
		&models.PrivateChatRequest{},
		&models.PrivateChatRoom{},
	)
}

// notFoundAsNil maps gorm.ErrRecordNotFound to a nil error.
func notFoundAsNil(err error) (bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func translateWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, common.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
