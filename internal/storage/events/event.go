package events

import (
	"encoding/json"
	"fmt"
	"time"

	e "github.com/IlianBuh/Blog-service/internal/lib/errors"
)

const (
	TypeCreated = "created"
	TypeUpdated = "updated"
)

type EventPayload struct {
	PostId    int64     `json:"post-id"`
	UserId    int64     `json:"user-id"`
	GroupId   int64     `json:"group-id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created-at"`
}

func CollectEventPayload(payload EventPayload) (string, error) {
	const op = "event.CollectEventPayload"

	data, err := json.Marshal(payload)
	if err != nil {
		return "", e.Fail(op, err)
	}

	return string(data), nil
}

func CollectEventId(postId int64, eventType string) string {
	return fmt.Sprintf(`%d_%s_%d`, postId, eventType, time.Now().UnixNano())
}
