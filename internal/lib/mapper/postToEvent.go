package mapper

import (
	"time"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/storage/events"
)

// PostToEvent builds event of eventType about the post
func PostToEvent(eventType string, post models.Post, title string) (models.Event, error) {
	payload := events.EventPayload{
		PostId:    post.Id,
		UserId:    post.Author.Id,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if post.Group != nil {
		payload.GroupId = post.Group.Id
	}

	data, err := events.CollectEventPayload(payload)
	if err != nil {
		return models.Event{}, err
	}

	return models.Event{
		Id:      events.CollectEventId(post.Id, eventType),
		Type:    eventType,
		Payload: data,
	}, nil
}

// PostsToIds collects ids of the posts keeping their order
func PostsToIds(posts []models.Post) []int64 {
	length := len(posts)
	res := make([]int64, length)

	for i := 0; i < length; i++ {
		res[i] = posts[i].Id
	}

	return res
}
