// internal/domain/upload/service.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles image upload business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ImageUploadRequest represents an image upload request
type ImageUploadRequest struct {
	File       multipart.File        `json:"-"`
	Header     *multipart.FileHeader `json:"-"`
	UploadedBy uint                  `json:"uploaded_by"`
}

// ImageListResponse represents image list response
type ImageListResponse struct {
	Images     []UploadedFile `json:"images"`
	Pagination Pagination     `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadImage validates and stores a single image on local disk
func (s *Service) UploadImage(req *ImageUploadRequest) (*UploadedFile, error) {
	if err := s.validateImageFile(req.Header); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.Header.Filename))
	filename := uuid.New().String() + ext

	fullPath := filepath.Join(s.config.Upload.LocalPath, filename)
	if err := os.MkdirAll(s.config.Upload.LocalPath, 0755); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create upload directory")
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, req.File); err != nil {
		os.Remove(fullPath)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to save file")
	}

	uploadedFile := UploadedFile{
		OriginalName: req.Header.Filename,
		Filename:     filename,
		Path:         filename,
		URL:          path.Join(s.config.Upload.PublicBaseURL, filename),
		MimeType:     mimeTypes[ext],
		Size:         req.Header.Size,
		UploadedBy:   req.UploadedBy,
	}

	if err := s.db.Create(&uploadedFile).Error; err != nil {
		// The record is the source of truth, so roll the file back too.
		os.Remove(fullPath)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to save file info")
	}

	return &uploadedFile, nil
}

// GetImage retrieves a single image record by ID
func (s *Service) GetImage(imageID uint) (*UploadedFile, error) {
	var uploadedFile UploadedFile
	if err := s.db.First(&uploadedFile, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "image not found")
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve image")
	}
	return &uploadedFile, nil
}

// GetImages retrieves uploaded images, newest first
func (s *Service) GetImages(page, limit int) (*ImageListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&UploadedFile{}).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count images")
	}

	var images []UploadedFile
	offset := (page - 1) * limit
	err := s.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&images).Error
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve images")
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ImageListResponse{
		Images: images,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int(total),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// DeleteImage removes an image record and its file on disk
func (s *Service) DeleteImage(imageID uint) error {
	uploadedFile, err := s.GetImage(imageID)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.config.Upload.LocalPath, uploadedFile.Path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to delete file")
	}

	if err := s.db.Delete(uploadedFile).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to delete image record")
	}
	return nil
}

func (s *Service) validateImageFile(header *multipart.FileHeader) error {
	if header == nil || header.Filename == "" {
		return apperror.New(apperror.CodeValidation, "no file provided")
	}

	if header.Size > s.config.Upload.MaxSize {
		return apperror.New(apperror.CodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", s.config.Upload.MaxSize))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperror.New(apperror.CodeValidation,
		fmt.Sprintf("file type .%s is not allowed", ext))
}
