package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetRef links a record to a binary object in the asset store.
// Either both fields are set or both are empty.
type AssetRef struct {
	URL      string `gorm:"size:512"`
	PublicID string `gorm:"size:255"`
}

// Present reports whether the reference points at a stored object.
func (r AssetRef) Present() bool {
	return r.PublicID != ""
}

// User is a back-office account.
type User struct {
	gorm.Model
	Name         string `gorm:"size:64"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"size:255"`
}

// Project is a portfolio entry with an optional cover image.
type Project struct {
	gorm.Model
	Title        string                      `gorm:"size:255"`
	Description  string                      `gorm:"type:text"`
	Technologies datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	GithubURL    string                      `gorm:"size:512"`
	Image        AssetRef                    `gorm:"embedded;embeddedPrefix:image_"`
}

// Resume is a resume record with an optional PDF document and photo.
type Resume struct {
	gorm.Model
	Name       string   `gorm:"size:255"`
	Title      string   `gorm:"size:255"`
	PhoneNo    string   `gorm:"size:32"`
	Email      string   `gorm:"size:255"`
	Experience string   `gorm:"type:text"`
	Document   AssetRef `gorm:"embedded;embeddedPrefix:document_"`
	Image      AssetRef `gorm:"embedded;embeddedPrefix:image_"`
}

// Problem is a Q&A entry. No asset.
type Problem struct {
	gorm.Model
	Question string `gorm:"type:text"`
	Answer   string `gorm:"type:text"`
}
