package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/zlnvch/blogverse/models"
	"github.com/zlnvch/blogverse/pubsub"
)

const (
	BlogCreatedEvent = "blog_created"
	BlogUpdatedEvent = "blog_updated"
	BlogDeletedEvent = "blog_deleted"
)

type BlogEvent struct {
	Type string      `json:"type"`
	Data models.Blog `json:"data"`
}

func (s *Service) publishBlogEvent(eventType string, blog models.Blog) {
	if s.PubSub == nil {
		return
	}

	// Async side-effect - the request does not wait for subscribers
	go func() {
		msgBytes, err := json.Marshal(BlogEvent{Type: eventType, Data: blog})
		if err != nil {
			return
		}
		if err := s.PubSub.Publish(context.Background(), pubsub.BlogEventsChannel, msgBytes); err != nil {
			log.Printf("Failed to publish %s for blog %s: %v", eventType, blog.BlogId, err)
		}
	}()
}
