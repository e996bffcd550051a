package adapters

import "time"

// FollowModel is the GORM model for the follows table.
// Approved distinguishes accepted follows from pending requests.
type FollowModel struct {
	ID         uint   `gorm:"primaryKey"`
	FollowerID string `gorm:"size:36;not null;uniqueIndex:idx_follows_pair"`
	FollowedID string `gorm:"size:36;not null;uniqueIndex:idx_follows_pair;index"`
	Approved   bool   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM.
func (FollowModel) TableName() string {
	return "follows"
}
