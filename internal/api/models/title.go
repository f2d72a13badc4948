package models

import "time"

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"not null"`
	Year        int     `json:"year" gorm:"not null;index"`
	Description *string `json:"description,omitempty" gorm:"type:text"`

	// Category is required; deleting a category that still has titles is
	// blocked at the store (ON DELETE RESTRICT).
	CategoryID int64    `json:"category_id" gorm:"not null;index"`
	Category   Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT;"`

	Genres []Genre `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Title) TableName() string {
	return "titles"
}
