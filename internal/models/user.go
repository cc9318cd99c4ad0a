// Package models contains the persisted domain types and the API error taxonomy.
package models

import "time"

// User is a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`
}

// Profile is the optional public profile of a user. At most one per user.
type Profile struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"uniqueIndex;not null" json:"-"`
	Company        string        `json:"company,omitempty"`
	Website        string        `json:"website,omitempty"`
	Location       string        `json:"location,omitempty"`
	Status         string        `gorm:"not null" json:"status"`
	Skills         []string      `gorm:"serializer:json;type:text" json:"skills"`
	Bio            string        `json:"bio,omitempty"`
	GithubUsername string        `json:"githubusername,omitempty"`
	CreatedAt      time.Time     `json:"date"`
	UpdatedAt      time.Time     `json:"-"`
	Owner          *ProfileOwner `gorm:"-" json:"user"`
}

// ProfileOwner is the slice of the owning user rendered with a profile.
type ProfileOwner struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
