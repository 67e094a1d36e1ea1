package entities

import "time"

// Video is a saved reference to a remote video.
type Video struct {
	ID        string    `gorm:"type:varchar(40);primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Reference string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Bytes     int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Video) TableName() string {
	return "videos"
}
