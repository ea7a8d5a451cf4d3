package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/events"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/models"
)

// BookingTimeLayout is the only accepted booking_time format.
const BookingTimeLayout = "2006-01-02 15:04:05"

// Store executes the assistant operations against the relational schema.
// Each mutation runs in its own transaction; nothing from a failed call is
// ever visible to a later one.
type Store struct {
	db  *gorm.DB
	pub events.Publisher
}

func NewStore(db *gorm.DB, pub events.Publisher) *Store {
	if pub == nil {
		pub = events.NopPublisher{}
	}

	return &Store{db: db, pub: pub}
}

func like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// ResolveRestaurant finds a restaurant by case-insensitive substring match
// on name, optionally narrowed by city. Ambiguous matches resolve to the
// lowest-id row; there is no ranking.
func (s *Store) ResolveRestaurant(ctx context.Context, name, city string) (*models.Restaurant, error) {
	query := s.db.WithContext(ctx).Where("LOWER(name) LIKE ?", like(name))
	if city != "" {
		query = query.Where("LOWER(city) LIKE ?", like(city))
	}

	var restaurant models.Restaurant
	if err := query.First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("Restaurant not found")
		}

		return nil, err
	}

	return &restaurant, nil
}

// ResolveMenuItem finds a menu item within a restaurant by case-insensitive
// substring match on item name. Same first-match policy as ResolveRestaurant.
func (s *Store) ResolveMenuItem(ctx context.Context, restaurantID uint64, itemName string) (*models.MenuItem, error) {
	return resolveMenuItem(s.db.WithContext(ctx), restaurantID, itemName)
}

func resolveMenuItem(db *gorm.DB, restaurantID uint64, itemName string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := db.
		Where("restaurant_id = ?", restaurantID).
		Where("LOWER(item_name) LIKE ?", like(itemName)).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("Menu item '%s' not found", itemName)
		}

		return nil, err
	}

	return &item, nil
}

// SearchFilter narrows SearchRestaurants conjunctively. Empty fields do not
// filter; MinRating of zero means no rating floor.
type SearchFilter struct {
	Name      string  `json:"name,omitempty"`
	City      string  `json:"city,omitempty"`
	Cuisine   string  `json:"cuisine,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
}

func (s *Store) SearchRestaurants(ctx context.Context, filter SearchFilter) ([]models.Restaurant, error) {
	query := s.db.WithContext(ctx).Model(&models.Restaurant{})
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", like(filter.Name))
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", like(filter.City))
	}
	if filter.Cuisine != "" {
		query = query.Where("LOWER(cuisine) LIKE ?", like(filter.Cuisine))
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	restaurants := make([]models.Restaurant, 0)
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, err
	}

	return restaurants, nil
}

// Menu returns every menu row of the resolved restaurant, available or not.
func (s *Store) Menu(ctx context.Context, restaurantName, city string) ([]models.MenuItem, error) {
	restaurant, err := s.ResolveRestaurant(ctx, restaurantName, city)
	if err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0)
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) AvailableTables(ctx context.Context, restaurantName, city string) ([]models.Table, error) {
	restaurant, err := s.ResolveRestaurant(ctx, restaurantName, city)
	if err != nil {
		return nil, err
	}

	tables := make([]models.Table, 0)
	err = s.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	return tables, nil
}

func (s *Store) FAQs(ctx context.Context, restaurantName, city string) ([]models.FAQ, error) {
	restaurant, err := s.ResolveRestaurant(ctx, restaurantName, city)
	if err != nil {
		return nil, err
	}

	faqs := make([]models.FAQ, 0)
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Find(&faqs).Error; err != nil {
		return nil, err
	}

	return faqs, nil
}

// TopRestaurants returns up to limit restaurants ordered by rating
// descending, optionally filtered by city substring. Equal ratings keep
// primary-key order, which is what the query planner hands back.
func (s *Store) TopRestaurants(ctx context.Context, city string, limit int) ([]models.Restaurant, error) {
	if limit <= 0 {
		limit = 5
	}

	query := s.db.WithContext(ctx).Model(&models.Restaurant{})
	if city != "" {
		query = query.Where("LOWER(city) LIKE ?", like(city))
	}

	restaurants := make([]models.Restaurant, 0)
	if err := query.Order("rating DESC").Limit(limit).Find(&restaurants).Error; err != nil {
		return nil, err
	}

	return restaurants, nil
}

type BookTableParams struct {
	RestaurantName string
	CustomerName   string
	BookingTime    string
	ContactNumber  string
	NumPeople      int
	TableNumber    int
	City           string
}

// BookTable creates a booking with status "booked". It does not check the
// table's availability flag or existing bookings at the requested time;
// reservations are soft and double bookings are the restaurant's problem.
func (s *Store) BookTable(ctx context.Context, p BookTableParams) (*models.Booking, error) {
	restaurant, err := s.ResolveRestaurant(ctx, p.RestaurantName, p.City)
	if err != nil {
		return nil, err
	}

	var table models.Table
	err = s.db.WithContext(ctx).
		Where("restaurant_id = ? AND table_number = ?", restaurant.ID, p.TableNumber).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("Table not found")
		}

		return nil, err
	}

	bookingTime, err := time.Parse(BookingTimeLayout, p.BookingTime)
	if err != nil {
		return nil, validationf("Invalid booking_time format. Use 'YYYY-MM-DD HH:MM:SS'")
	}

	booking := models.Booking{
		RestaurantID:  restaurant.ID,
		TableID:       table.ID,
		CustomerName:  p.CustomerName,
		BookingTime:   bookingTime,
		ContactNumber: p.ContactNumber,
		NumPeople:     p.NumPeople,
		Status:        models.BookingStatusBooked,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&booking).Error
	})
	if err != nil {
		slog.Error("failed to book table", "restaurant", restaurant.Name, "table", p.TableNumber, "error", err)
		return nil, err
	}

	slog.Info("booked table", "booking_id", booking.ID, "restaurant", restaurant.Name, "table", p.TableNumber, "customer", p.CustomerName)
	s.publish(ctx, events.Event{
		Type:         events.BookingCreated,
		RestaurantID: restaurant.ID,
		EntityID:     booking.ID,
		CustomerName: p.CustomerName,
	})

	return &booking, nil
}

// OrderLine is one requested item of PlaceOrder.
type OrderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderParams struct {
	RestaurantName  string
	CustomerName    string
	Items           []OrderLine
	DeliveryAddress string
	ContactNumber   string
	City            string
}

// PlaceOrder creates an order and its line items in one transaction. If any
// item fails to resolve the whole order rolls back and the error names that
// item. Line items copy the menu price at order time.
func (s *Store) PlaceOrder(ctx context.Context, p PlaceOrderParams) (*models.Order, error) {
	restaurant, err := s.ResolveRestaurant(ctx, p.RestaurantName, p.City)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		RestaurantID:    restaurant.ID,
		CustomerName:    p.CustomerName,
		DeliveryAddress: p.DeliveryAddress,
		ContactNumber:   p.ContactNumber,
		Status:          models.OrderStatusPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, line := range p.Items {
			menuItem, err := resolveMenuItem(tx, restaurant.ID, line.Name)
			if err != nil {
				return err
			}

			total += menuItem.Price * float64(line.Quantity)
			item := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: menuItem.ID,
				Quantity:   line.Quantity,
				ItemPrice:  menuItem.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		order.TotalAmount = total

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("total_amount", total).Error
	})
	if err != nil {
		slog.Error("failed to place order", "restaurant", restaurant.Name, "customer", p.CustomerName, "error", err)
		return nil, err
	}

	slog.Info("placed order", "order_id", order.ID, "restaurant", restaurant.Name, "customer", p.CustomerName, "total", order.TotalAmount)
	s.publish(ctx, events.Event{
		Type:         events.OrderPlaced,
		RestaurantID: restaurant.ID,
		EntityID:     order.ID,
		CustomerName: p.CustomerName,
	})

	return &order, nil
}

// CancelOrder sets the order status to "cancelled". Cancelling an already
// cancelled or completed order is accepted and just re-applies the status.
func (s *Store) CancelOrder(ctx context.Context, orderID uint64, reason string) error {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Order not found")
		}

		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cancel(tx, &models.Order{}, order.ID, reason)
	})
	if err != nil {
		slog.Error("failed to cancel order", "order_id", orderID, "error", err)
		return err
	}

	slog.Info("cancelled order", "order_id", orderID)
	s.publish(ctx, events.Event{
		Type:         events.OrderCancelled,
		RestaurantID: order.RestaurantID,
		EntityID:     order.ID,
		CustomerName: order.CustomerName,
	})

	return nil
}

// CancelBooking mirrors CancelOrder for bookings.
func (s *Store) CancelBooking(ctx context.Context, bookingID uint64, reason string) error {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Booking not found")
		}

		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cancel(tx, &models.Booking{}, booking.ID, reason)
	})
	if err != nil {
		slog.Error("failed to cancel booking", "booking_id", bookingID, "error", err)
		return err
	}

	slog.Info("cancelled booking", "booking_id", bookingID)
	s.publish(ctx, events.Event{
		Type:         events.BookingCancelled,
		RestaurantID: booking.RestaurantID,
		EntityID:     booking.ID,
		CustomerName: booking.CustomerName,
	})

	return nil
}

func cancel(tx *gorm.DB, model interface{}, id uint64, reason string) error {
	updates := map[string]interface{}{
		"status":       "cancelled",
		"cancelled_at": time.Now().UTC(),
	}
	if reason != "" {
		updates["cancellation_reason"] = reason
	}

	return tx.Model(model).Where("id = ?", id).Updates(updates).Error
}

type SubmitReviewParams struct {
	RestaurantName string
	CustomerName   string
	Rating         int
	Comment        string
	City           string
}

// SubmitReview stores the rating as given. The 1-5 range is a convention of
// the callers, not a constraint here.
func (s *Store) SubmitReview(ctx context.Context, p SubmitReviewParams) (*models.Review, error) {
	restaurant, err := s.ResolveRestaurant(ctx, p.RestaurantName, p.City)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		RestaurantID: restaurant.ID,
		CustomerName: p.CustomerName,
		Rating:       p.Rating,
		Comment:      p.Comment,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&review).Error
	})
	if err != nil {
		slog.Error("failed to submit review", "restaurant", restaurant.Name, "error", err)
		return nil, err
	}

	slog.Info("review submitted", "restaurant", restaurant.Name, "customer", p.CustomerName, "rating", p.Rating)
	s.publish(ctx, events.Event{
		Type:         events.ReviewSubmitted,
		RestaurantID: restaurant.ID,
		EntityID:     review.ID,
		CustomerName: p.CustomerName,
	})

	return &review, nil
}

// AuthenticateUser verifies the password against the stored bcrypt hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{}
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &AuthError{}
	}

	slog.Info("user logged in", "user_id", user.ID)

	return &user, nil
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.pub.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish event", "type", event.Type, "entity_id", event.EntityID, "error", err)
	}
}
