package subscription

import (
	"fmt"
	"io"
	"strconv"

	"github.com/VitaminP8/campusconnect/graph/model"
)

type EventType string

const (
	CommentAdded   EventType = "comment_added"
	CommentDeleted EventType = "comment_deleted"
)

func (e EventType) IsValid() bool {
	switch e {
	case CommentAdded, CommentDeleted:
		return true
	}
	return false
}

func (e *EventType) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = EventType(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid CommentEventType", str)
	}
	return nil
}

func (e EventType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(e)))
}

// Event - изменение в комментариях поста
type Event struct {
	Type    EventType      `json:"type"`
	PostID  string         `json:"postId"`
	Comment *model.Comment `json:"comment"`
}

type Manager interface {
	Subscribe(postID string) (<-chan Event, func())
	Publish(event Event)
}
