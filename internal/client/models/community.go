package models

import "time"

// Community is a user-created space that hosts posts and activities.
type Community struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rules       string    `json:"rules"`
	Privacy     string    `json:"privacy"`
	ImgURL      string    `json:"imgURL"`
	BannerURL   string    `json:"bannerURL"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a piece of content published inside a community.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy int64     `json:"created_by"`
	PostedIn  int64     `json:"posted_in"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"created_at"`
}
