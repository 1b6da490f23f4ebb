package redis

import (
	"context"
	"crypto/tls"
	"log"

	"github.com/redis/go-redis/v9"
)

type RedisPubSub struct {
	client redis.UniversalClient
}

func NewRedisPubSub(ctx context.Context, devMode bool, redisEndpoint string) (*RedisPubSub, error) {
	opts := &redis.Options{
		Addr: redisEndpoint,
	}
	if !devMode {
		// AWS elasticache endpoints require TLS
		opts.TLSConfig = &tls.Config{}
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPubSub{client: client}, nil
}

func NewRedisPubSubFromClient(client redis.UniversalClient) *RedisPubSub {
	return &RedisPubSub{client: client}
}

func (r *RedisPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	return r.client.Publish(ctx, channel, message).Err()
}

func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	pubsub := r.client.Subscribe(ctx, channel)
	// Ensure subscription is established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		log.Printf("Pubsub channel closed: %s", channel)
		return err
	}

	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}

func (r *RedisPubSub) Close() error {
	return r.client.Close()
}
