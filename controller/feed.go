package controller

import (
	"net/http"

	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/service"
	"github.com/transparentprocure/oversight-service/utils"
)

type FeedController interface {
	GetFeed(w http.ResponseWriter, r *http.Request)
	GetWardFeed(w http.ResponseWriter, r *http.Request)
}

func NewFeedController(feedService service.FeedService, generations utils.ViewGenerations) FeedController {
	return &feedControllerImpl{feedService: feedService, generations: generations}
}

type feedControllerImpl struct {
	feedService service.FeedService
	generations utils.ViewGenerations
}

func (f feedControllerImpl) GetFeed(w http.ResponseWriter, r *http.Request) {
	wardId := r.URL.Query().Get("wardId")
	ctx, gen := beginView(r, f.generations, "feed")
	result, err := f.feedService.GetFeed(ctx, wardId)
	respondWithView(w, r, gen, "Failed to get feed", result, err)
}

func (f feedControllerImpl) GetWardFeed(w http.ResponseWriter, r *http.Request) {
	wardId, err := getUnescapedStringParam(r, "wardId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "wardId"},
			Debug:   err.Error(),
		})
		return
	}
	ctx, gen := beginView(r, f.generations, "feed")
	result, err := f.feedService.GetWardFeed(ctx, wardId)
	respondWithView(w, r, gen, "Failed to get ward feed", result, err)
}
