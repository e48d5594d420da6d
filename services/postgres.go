package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidgate-io/vidgate_api/model"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "vidgate_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.User{},
		&model.RateLimit{},

		&model.Video{},
		&model.InteractionType{},
		&model.Interaction{},
		&model.InteractionOption{},

		&model.InteractionProgress{},
		&model.InteractionAttempt{},

		&model.MediaAsset{},
		&model.VideoMedia{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// ==================== USERS ====================

func (ds *PostgresService) GetUserByID(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *PostgresService) CreateUser(email, username, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, _ := uuid.NewV7()
	user := model.User{
		ID:       id.String(),
		Email:    email,
		Username: username,
		Password: string(hashed),
		Role:     "user",
		IsActive: true,
	}
	if err := ds.db.Create(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	if err := ds.db.Save(user).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== VIDEOS ====================

func (ds *PostgresService) GetVideo(id string) (*model.Video, error) {
	var video model.Video
	if err := ds.db.Where("id = ?", id).First(&video).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &video, nil
}

func (ds *PostgresService) ListVideos(activeOnly bool, offset, limit int) ([]model.Video, int64, error) {
	var videos []model.Video
	var total int64

	q := ds.db.Model(&model.Video{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ds.HandleError(err)
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&videos).Error; err != nil {
		return nil, 0, ds.HandleError(err)
	}
	return videos, total, nil
}

func (ds *PostgresService) CreateVideo(video *model.Video) (*model.Video, error) {
	id, _ := uuid.NewV7()
	video.ID = id.String()
	if err := ds.db.Create(video).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return video, nil
}

func (ds *PostgresService) UpdateVideo(video *model.Video) error {
	if err := ds.db.Save(video).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) DeleteVideo(id string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		var interactionIDs []string
		if err := tx.Model(&model.Interaction{}).Where("video_id = ?", id).Pluck("id", &interactionIDs).Error; err != nil {
			return ds.HandleError(err)
		}
		if len(interactionIDs) > 0 {
			if err := tx.Where("interaction_id IN ?", interactionIDs).Delete(&model.InteractionOption{}).Error; err != nil {
				return ds.HandleError(err)
			}
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Interaction{}).Error; err != nil {
			return ds.HandleError(err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Video{}).Error; err != nil {
			return ds.HandleError(err)
		}
		return nil
	})
}

func (ds *PostgresService) CountInteractions(videoID string) (int64, error) {
	var n int64
	err := ds.db.Model(&model.Interaction{}).Where("video_id = ? AND is_active = ?", videoID, true).Count(&n).Error
	return n, err
}

// ==================== INTERACTION TYPES ====================

func (ds *PostgresService) GetInteractionTypeByCode(code string) (*model.InteractionType, error) {
	var t model.InteractionType
	if err := ds.db.Where("code = ?", code).First(&t).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &t, nil
}

func (ds *PostgresService) ListInteractionTypes() ([]model.InteractionType, error) {
	var types []model.InteractionType
	if err := ds.db.Order("code").Find(&types).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return types, nil
}

func (ds *PostgresService) UpsertInteractionType(t *model.InteractionType) error {
	var existing model.InteractionType
	err := ds.db.Where("code = ?", t.Code).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, _ := uuid.NewV7()
		t.ID = id.String()
		return ds.HandleError(ds.db.Create(t).Error)
	}
	if err != nil {
		return ds.HandleError(err)
	}

	existing.Name = t.Name
	existing.Description = t.Description
	existing.IsActive = t.IsActive
	return ds.HandleError(ds.db.Save(&existing).Error)
}

// ==================== INTERACTIONS ====================

// GetInteraction loads an interaction with its type and options.
func (ds *PostgresService) GetInteraction(id string) (*model.Interaction, error) {
	var it model.Interaction
	err := ds.db.Preload("Type").Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, created_at ASC")
	}).Where("id = ?", id).First(&it).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &it, nil
}

// ListInteractions returns a video's interactions ordered by activation time.
func (ds *PostgresService) ListInteractions(videoID string, activeOnly bool) ([]model.Interaction, error) {
	var items []model.Interaction

	q := ds.db.Preload("Type").Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, created_at ASC")
	}).Where("video_id = ?", videoID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("activation_time_seconds ASC").Find(&items).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return items, nil
}

func (ds *PostgresService) CreateInteraction(it *model.Interaction, options []model.InteractionOption) (*model.Interaction, error) {
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		id, _ := uuid.NewV7()
		it.ID = id.String()
		if err := tx.Omit("Video", "Type", "Options").Create(it).Error; err != nil {
			return ds.HandleError(err)
		}
		for i := range options {
			oid, _ := uuid.NewV7()
			options[i].ID = oid.String()
			options[i].InteractionID = it.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return ds.HandleError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds.GetInteraction(it.ID)
}

func (ds *PostgresService) UpdateInteraction(it *model.Interaction, options []model.InteractionOption, replaceOptions bool) (*model.Interaction, error) {
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Video", "Type", "Options").Save(it).Error; err != nil {
			return ds.HandleError(err)
		}
		if !replaceOptions {
			return nil
		}
		if err := tx.Where("interaction_id = ?", it.ID).Delete(&model.InteractionOption{}).Error; err != nil {
			return ds.HandleError(err)
		}
		for i := range options {
			oid, _ := uuid.NewV7()
			options[i].ID = oid.String()
			options[i].InteractionID = it.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return ds.HandleError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds.GetInteraction(it.ID)
}

func (ds *PostgresService) DeleteInteraction(id string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interaction_id = ?", id).Delete(&model.InteractionOption{}).Error; err != nil {
			return ds.HandleError(err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Interaction{}).Error; err != nil {
			return ds.HandleError(err)
		}
		return nil
	})
}

// ==================== PROGRESS & ATTEMPTS ====================

func (ds *PostgresService) ListProgress(userID, videoID string) ([]model.InteractionProgress, error) {
	var items []model.InteractionProgress
	if err := ds.db.Where("user_id = ? AND video_id = ?", userID, videoID).Find(&items).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return items, nil
}

func (ds *PostgresService) GetProgress(userID, interactionID string) (*model.InteractionProgress, error) {
	var p model.InteractionProgress
	if err := ds.db.Where("user_id = ? AND interaction_id = ?", userID, interactionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProgress records a completion. Correct answers overwrite earlier
// skip rows, never the other way around.
func (ds *PostgresService) UpsertProgress(p *model.InteractionProgress) error {
	var existing model.InteractionProgress
	err := ds.db.Where("user_id = ? AND interaction_id = ?", p.UserID, p.InteractionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, _ := uuid.NewV7()
		p.ID = id.String()
		return ds.HandleError(ds.db.Create(p).Error)
	}
	if err != nil {
		return ds.HandleError(err)
	}

	if existing.Skipped && !p.Skipped {
		existing.Skipped = false
		existing.IsCorrect = p.IsCorrect
		existing.PointsEarned = p.PointsEarned
		existing.CompletedAt = p.CompletedAt
		return ds.HandleError(ds.db.Save(&existing).Error)
	}
	return nil
}

func (ds *PostgresService) DeleteProgress(userID, videoID string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		var interactionIDs []string
		if err := tx.Model(&model.Interaction{}).Where("video_id = ?", videoID).Pluck("id", &interactionIDs).Error; err != nil {
			return ds.HandleError(err)
		}
		if err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.InteractionProgress{}).Error; err != nil {
			return ds.HandleError(err)
		}
		if len(interactionIDs) > 0 {
			if err := tx.Where("user_id = ? AND interaction_id IN ?", userID, interactionIDs).Delete(&model.InteractionAttempt{}).Error; err != nil {
				return ds.HandleError(err)
			}
		}
		return nil
	})
}

func (ds *PostgresService) CountAttempts(userID, interactionID string) (int64, error) {
	var n int64
	err := ds.db.Model(&model.InteractionAttempt{}).
		Where("user_id = ? AND interaction_id = ?", userID, interactionID).Count(&n).Error
	return n, err
}

func (ds *PostgresService) CreateAttempt(a *model.InteractionAttempt) error {
	id, _ := uuid.NewV7()
	a.ID = id.String()
	return ds.HandleError(ds.db.Create(a).Error)
}

func (ds *PostgresService) SumPoints(userID, videoID string) (int, error) {
	var total int64
	err := ds.db.Model(&model.InteractionProgress{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Select("COALESCE(SUM(points_earned), 0)").Scan(&total).Error
	return int(total), err
}

// ==================== MEDIA ====================

func (ds *PostgresService) CreateMediaAsset(asset *model.MediaAsset) (*model.MediaAsset, error) {
	id, _ := uuid.NewV7()
	asset.ID = id.String()
	if err := ds.db.Create(asset).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return asset, nil
}

func (ds *PostgresService) GetMediaAsset(id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	if err := ds.db.Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &asset, nil
}

// AttachVideoMedia links an asset to a video, deactivating any previous
// link of the same role.
func (ds *PostgresService) AttachVideoMedia(videoID, assetID, mediaType string) (*model.VideoMedia, error) {
	var link model.VideoMedia
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VideoMedia{}).
			Where("video_id = ? AND media_type = ?", videoID, mediaType).
			Update("is_active", false).Error; err != nil {
			return ds.HandleError(err)
		}

		id, _ := uuid.NewV7()
		link = model.VideoMedia{
			ID:           id.String(),
			VideoID:      videoID,
			MediaAssetID: assetID,
			MediaType:    mediaType,
			IsActive:     true,
		}
		return ds.HandleError(tx.Create(&link).Error)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ==================== RATE LIMITS ====================

func (ds *PostgresService) GetRateLimit(identifier, endpointType string) (*model.RateLimit, error) {
	var rl model.RateLimit
	if err := ds.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).First(&rl).Error; err != nil {
		return nil, err
	}
	return &rl, nil
}

func (ds *PostgresService) SaveRateLimit(rl *model.RateLimit) error {
	if rl.ID == "" {
		id, _ := uuid.NewV7()
		rl.ID = id.String()
		return ds.HandleError(ds.db.Create(rl).Error)
	}
	return ds.HandleError(ds.db.Save(rl).Error)
}

func (ds *PostgresService) CleanupExpiredRateLimits(olderThan time.Time) error {
	return ds.db.Where("window_start < ? AND (blocked_until IS NULL OR blocked_until < ?)", olderThan, time.Now()).
		Delete(&model.RateLimit{}).Error
}
