package dto

type MediaUploadResponse struct {
	AssetID     string `json:"asset_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	PublicURL   string `json:"public_url"`
}

type AttachMediaRequest struct {
	AssetID   string `json:"asset_id" validate:"required"`
	MediaType string `json:"media_type" validate:"required,oneof=video thumbnail subtitle"`
}

func (r AttachMediaRequest) Validate() error {
	return GetValidator().Struct(r)
}
