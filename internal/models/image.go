// Package models contains data structures for the application's domain models.
package models

import "time"

// Image represents a processed post attachment. Uploads are normalized to a
// single WebP rendition and addressed by Name, a random identifier handed
// back to the client at upload time.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Hash        string    `gorm:"size:64;index" json:"hash"`
	ContentType string    `gorm:"size:64;not null" json:"content_type"`
	Width       int       `gorm:"not null" json:"width"`
	Height      int       `gorm:"not null" json:"height"`
	Data        []byte    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
