package dto

import "github.com/mahdyhasan/augmind/internal/entity"

// UploadDocumentRequest carries the multipart form fields accompanying the
// file part.
type UploadDocumentRequest struct {
	Category    string `json:"category" form:"category" validate:"required,max=64"`
	Description string `json:"description" form:"description" validate:"max=512"`
}

type DocumentResponse struct {
	entity.Document
	DownloadURL string `json:"download_url,omitempty"`
}
