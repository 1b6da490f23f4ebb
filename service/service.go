package service

import (
	"errors"

	"github.com/zlnvch/blogverse/mq"
	"github.com/zlnvch/blogverse/pubsub"
	"github.com/zlnvch/blogverse/store"
)

type Service struct {
	Store       store.BlogverseStore
	PubSub      pubsub.PubSub
	RepairQueue mq.MessageQueue
	Hasher      PasswordHasher
}

func NewService(
	store store.BlogverseStore,
	pubSub pubsub.PubSub,
	repairQueue mq.MessageQueue,
	hasher PasswordHasher,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}

	return &Service{
		Store:       store,
		PubSub:      pubSub,
		RepairQueue: repairQueue,
		Hasher:      hasher,
	}, nil
}
