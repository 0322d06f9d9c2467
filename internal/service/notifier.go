package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Notifier carries "collection changed" signals from writers to watchers.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	// Listen returns once delivery is established; handle then runs for every
	// published topic until ctx is done or the notifier is closed.
	Listen(ctx context.Context, handle func(topic string)) error
	Close() error
}

// MemoryNotifier fans out inside one process.
type MemoryNotifier struct {
	mu       sync.RWMutex
	handlers map[uint64]func(topic string)
	nextID   uint64
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{handlers: make(map[uint64]func(topic string))}
}

func (n *MemoryNotifier) Publish(ctx context.Context, topic string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, handle := range n.handlers {
		handle(topic)
	}
	return nil
}

func (n *MemoryNotifier) Listen(ctx context.Context, handle func(topic string)) error {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handle
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.handlers, id)
		n.mu.Unlock()
	}()
	return nil
}

func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	n.handlers = make(map[uint64]func(topic string))
	n.mu.Unlock()
	return nil
}

// RedisFeedChannelPrefix prefixes every change-feed channel.
const RedisFeedChannelPrefix = "feed:"

// RedisNotifier fans out through Redis Pub/Sub so every node sees every write.
type RedisNotifier struct {
	client *redis.Client
	log    *logrus.Logger

	mu      sync.Mutex
	pubsubs []*redis.PubSub
	wg      sync.WaitGroup
}

func NewRedisNotifier(client *redis.Client, log *logrus.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, log: log}
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string) error {
	if err := n.client.Publish(ctx, RedisFeedChannelPrefix+topic, "changed").Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (n *RedisNotifier) Listen(ctx context.Context, handle func(topic string)) error {
	pubsub := n.client.PSubscribe(ctx, RedisFeedChannelPrefix+"*")

	// Wait for the subscription confirmation so no publish after Listen is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to change feed: %w", err)
	}

	n.mu.Lock()
	n.pubsubs = append(n.pubsubs, pubsub)
	n.mu.Unlock()

	ch := pubsub.Channel()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handle(strings.TrimPrefix(msg.Channel, RedisFeedChannelPrefix))
			}
		}
	}()

	return nil
}

func (n *RedisNotifier) Close() error {
	n.mu.Lock()
	pubsubs := n.pubsubs
	n.pubsubs = nil
	n.mu.Unlock()

	for _, pubsub := range pubsubs {
		if err := pubsub.Close(); err != nil {
			n.log.Debugf("Closing change feed subscription: %v", err)
		}
	}
	n.wg.Wait()
	return nil
}
