package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	RecipeCreated = "recipe.created"
	RecipeSaved   = "recipe.saved"
	RecipeDeleted = "recipe.deleted"
	UserCreated   = "user.registered"
)

type Index struct {
	EntityType string    `json:"entity_type"`
	Method     string    `json:"method"`
	EntityId   string    `json:"entity_id"`
	UserId     string    `json:"user_id,omitempty"`
	At         time.Time `json:"at"`
}

type Event struct {
	Name    string `json:"event"`
	Content Index  `json:"content"`
}

// Emitter publishes lifecycle events. Emit failures never fail a request.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content Index) error
}

// Publisher is the part of *redis.Client the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisEmitter struct {
	pub     Publisher
	channel string
}

func NewRedisEmitter(pub Publisher, channel string) *RedisEmitter {
	return &RedisEmitter{pub: pub, channel: channel}
}

func (e *RedisEmitter) Emit(ctx context.Context, eventName string, content Index) error {
	if content.At.IsZero() {
		content.At = time.Now().UTC()
	}
	payload, err := json.Marshal(Event{Name: eventName, Content: content})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := e.pub.Publish(ctx, e.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", eventName, err)
	}
	return nil
}

// LogEmitter is used when no Redis is configured.
type LogEmitter struct {
	log *zap.Logger
}

func NewLogEmitter(log *zap.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(_ context.Context, eventName string, content Index) error {
	e.log.Info("event emitted",
		zap.String("event", eventName),
		zap.String("entity_type", content.EntityType),
		zap.String("entity_id", content.EntityId),
		zap.String("user_id", content.UserId),
	)
	return nil
}

// Notify emits and logs a failure instead of returning it.
func Notify(ctx context.Context, e Emitter, log *zap.Logger, eventName string, content Index) {
	if e == nil {
		return
	}
	if err := e.Emit(ctx, eventName, content); err != nil {
		log.Warn("emit failed", zap.String("event", eventName), zap.Error(err))
	}
}
