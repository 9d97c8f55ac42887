// Package model defines the database models for users and their audio files.
package model

import "time"

type User struct {
	Id             int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string  `json:"username" gorm:"uniqueIndex;not null"`
	YandexId       *string `json:"yandex_id,omitempty" gorm:"uniqueIndex"`
	HashedPassword string  `json:"-"`
	IsSuperuser    bool    `json:"is_superuser" gorm:"default:false"`

	AudioFiles []AudioFile `json:"-" gorm:"foreignKey:OwnerId"`
}

type AudioFile struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"index;not null"`
	Path      string    `json:"path" gorm:"index"`
	OwnerId   int       `json:"owner_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`

	Owner *User `json:"-" gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
}
