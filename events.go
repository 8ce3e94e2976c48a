package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	mealLogged  = "meal.logged"
	mealDeleted = "meal.deleted"
)

// mealEvent is published whenever a meal entry is created or removed so
// downstream consumers can keep their own aggregates.
type mealEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DogID        int       `json:"dog_id"`
	MealID       int       `json:"meal_id"`
	Date         string    `json:"date"`
	ItemName     string    `json:"item_name"`
	IsSupplement bool      `json:"is_supplement"`
	Calories     float64   `json:"calories"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func newMealEvent(eventType string, m mealEntry) mealEvent {
	return mealEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		DogID:        m.DogID,
		MealID:       m.ID,
		Date:         m.Date.Format(time.DateOnly),
		ItemName:     m.ItemName,
		IsSupplement: m.IsSupplement,
		Calories:     m.Calories,
		OccurredAt:   time.Now().UTC(),
	}
}

type mealEventPublisher interface {
	publish(ctx context.Context, ev mealEvent) error
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// kafkaMealPublisher writes events keyed by dog id so one dog's events stay
// ordered within a partition.
type kafkaMealPublisher struct {
	writer messageWriter
}

func newKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func (p *kafkaMealPublisher) publish(ctx context.Context, ev mealEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal meal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(ev.DogID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
}

// publishMealEvent is fire-and-log: a broker outage never fails the request
// that changed the meal log.
func (h *Handler) publishMealEvent(c *gin.Context, ev mealEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.publish(c, ev); err != nil {
		log.Printf("[events] publish %s for meal %d failed: %v", ev.Type, ev.MealID, err)
	}
}
