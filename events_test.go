package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func testMeal() mealEntry {
	return mealEntry{
		ID:           42,
		DogID:        7,
		Date:         DateOnly{time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		ItemName:     "Chicken breast",
		IsSupplement: false,
		Calories:     165,
	}
}

func TestNewMealEvent(t *testing.T) {
	ev := newMealEvent(mealLogged, testMeal())

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, mealLogged, ev.Type)
	assert.Equal(t, 7, ev.DogID)
	assert.Equal(t, 42, ev.MealID)
	assert.Equal(t, "2026-03-02", ev.Date)
	assert.Equal(t, 165.0, ev.Calories)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestKafkaMealPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &kafkaMealPublisher{writer: w}

	require.NoError(t, p.publish(context.Background(), newMealEvent(mealDeleted, testMeal())))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, mealDeleted, string(msg.Headers[0].Value))

	var ev mealEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, 42, ev.MealID)
	assert.Equal(t, "Chicken breast", ev.ItemName)
}

type recordingPublisher struct {
	events []mealEvent
	err    error
}

func (r *recordingPublisher) publish(_ context.Context, ev mealEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestPublishMealEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", nil)

	// No publisher configured: nothing happens.
	(&Handler{}).publishMealEvent(c, newMealEvent(mealLogged, testMeal()))

	rec := &recordingPublisher{err: errors.New("broker down")}
	h := &Handler{events: rec}
	h.publishMealEvent(c, newMealEvent(mealLogged, testMeal()))
	assert.Len(t, rec.events, 1, "publish errors are logged, not returned")
}
