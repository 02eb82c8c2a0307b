// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow represents a directed edge: FollowerID receives AuthorID's posts in
// their following feed. The composite unique index is the store-level
// guarantee that at most one edge exists per pair, even under racing inserts.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_author" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follower_author" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
