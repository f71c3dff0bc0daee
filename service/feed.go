package service

import (
	"context"
	"slices"

	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/view"
)

const recentPostsCount = 5

type FeedService interface {
	GetFeed(ctx context.Context, wardId string) (*view.FeedView, error)
	GetWardFeed(ctx context.Context, wardId string) (*view.FeedView, error)
}

func NewFeedService(procurementClient client.ProcurementClient) FeedService {
	return &feedServiceImpl{procurementClient: procurementClient}
}

type feedServiceImpl struct {
	procurementClient client.ProcurementClient
}

func (f feedServiceImpl) GetFeed(ctx context.Context, wardId string) (*view.FeedView, error) {
	if wardId == "" {
		wardId = view.AllActivities
	}
	posts, err := f.procurementClient.GetPosts(ctx, wardId)
	return f.makeFeedView(ctx, wardId, posts, err)
}

func (f feedServiceImpl) GetWardFeed(ctx context.Context, wardId string) (*view.FeedView, error) {
	posts, err := f.procurementClient.GetWardFeed(ctx, wardId)
	return f.makeFeedView(ctx, wardId, posts, err)
}

func (f feedServiceImpl) makeFeedView(ctx context.Context, wardId string, posts []view.Post, err error) (*view.FeedView, error) {
	result := &view.FeedView{WardId: wardId, Posts: []view.Post{}}
	if err != nil {
		msg, err := sectionFailure(ctx, "feed", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Posts = posts
	result.Stats = FeedStats(posts)
	return result, nil
}

func FeedStats(posts []view.Post) view.FeedStats {
	stats := view.FeedStats{}
	for _, p := range posts {
		switch p.Status {
		case view.PostOnSchedule:
			stats.OnTrack++
		case view.PostDelayReported:
			stats.AtRisk++
		}
	}
	return stats
}

// RecentPosts returns the last n posts, newest first. The backend lists posts oldest first.
func RecentPosts(posts []view.Post, n int) []view.Post {
	recent := slices.Clone(posts)
	slices.Reverse(recent)
	if n < len(recent) {
		recent = recent[:n]
	}
	if recent == nil {
		return []view.Post{}
	}
	return recent
}
