// model/media.go
package model

import (
	"time"
)

// MediaAsset is an uploaded file stored in object storage.
type MediaAsset struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	FileName    string    `json:"file_name" gorm:"not null"`
	FileType    string    `json:"file_type"` // video, subtitle, thumbnail
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	ObjectKey   string    `json:"object_key" gorm:"not null"`
	PublicURL   string    `json:"public_url"`
	IsProcessed bool      `json:"is_processed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VideoMedia links a media asset to a video by role.
type VideoMedia struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	VideoID      string    `json:"video_id" gorm:"index;not null"`
	MediaAssetID string    `json:"media_asset_id" gorm:"not null"`
	MediaType    string    `json:"media_type"` // video, subtitle, thumbnail
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`

	MediaAsset MediaAsset `json:"media_asset" gorm:"foreignKey:MediaAssetID"`
}
