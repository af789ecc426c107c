package models

import (
	"time"

	"gorm.io/gorm"
)

type Building struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:100;not null"`
	Slug         string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
	Description  string `json:"description,omitempty" gorm:"type:text"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`

	Cameras []Camera `json:"cameras,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
