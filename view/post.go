package view

import "time"

type PostStatus string

const (
	PostOnSchedule    PostStatus = "on_schedule"
	PostDelayReported PostStatus = "delay_reported"
)

// AllActivities is the feed filter value meaning "no ward filter".
const AllActivities = "All Activities"

type Post struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	WardId      string     `json:"wardId,omitempty"`
	County      string     `json:"county,omitempty"`
	Category    string     `json:"category,omitempty"`
	ReferenceId string     `json:"referenceId,omitempty"`
	Status      PostStatus `json:"status,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Author      string     `json:"author,omitempty"`
	Likes       int        `json:"likes"`
	Comments    int        `json:"comments"`
}

type FeedStats struct {
	OnTrack int `json:"onTrack"`
	AtRisk  int `json:"atRisk"`
}

type FeedView struct {
	WardId string    `json:"wardId"`
	Stats  FeedStats `json:"stats"`
	Posts  []Post    `json:"posts"`
	Error  string    `json:"error,omitempty"`
}
