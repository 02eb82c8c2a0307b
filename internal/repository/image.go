// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"tribune/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines persistence operations for processed post images.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	GetByName(ctx context.Context, name string) (*models.Image, error)
	GetByHash(ctx context.Context, hash string) (*models.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new image repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (r *imageRepository) GetByName(ctx context.Context, name string) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

// GetByHash returns (nil, nil) when no image matches; uploads use it to
// deduplicate identical content.
func (r *imageRepository) GetByHash(ctx context.Context, hash string) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}
