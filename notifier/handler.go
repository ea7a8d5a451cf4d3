package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/events"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/models"
)

// Handler turns committed domain events into customer-facing confirmation
// messages. Delivery here is the structured log; a mail or SMS gateway
// would hang off the same handler.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) HandleEvent(ctx context.Context, msg []byte) error {
	var event events.Event
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	restaurantName := h.restaurantName(ctx, event.RestaurantID)

	var text string
	switch event.Type {
	case events.BookingCreated:
		text = fmt.Sprintf("Hi %s, your booking #%d at %s is confirmed.", event.CustomerName, event.EntityID, restaurantName)
	case events.BookingCancelled:
		text = fmt.Sprintf("Hi %s, your booking #%d at %s has been cancelled.", event.CustomerName, event.EntityID, restaurantName)
	case events.OrderPlaced:
		text = fmt.Sprintf("Hi %s, order #%d from %s is being prepared.", event.CustomerName, event.EntityID, restaurantName)
	case events.OrderCancelled:
		text = fmt.Sprintf("Hi %s, order #%d from %s has been cancelled.", event.CustomerName, event.EntityID, restaurantName)
	case events.ReviewSubmitted:
		text = fmt.Sprintf("Thanks %s, your review of %s was published.", event.CustomerName, restaurantName)
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}

	slog.Info("notification", "type", event.Type, "entity_id", event.EntityID, "message", text)

	return nil
}

func (h *Handler) restaurantName(ctx context.Context, id uint64) string {
	if id == 0 {
		return "the restaurant"
	}

	var restaurant models.Restaurant
	if err := h.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("failed to load restaurant for notification", "restaurant_id", id, "error", err)
		}

		return "the restaurant"
	}

	return restaurant.Name
}
