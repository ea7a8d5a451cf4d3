package assistant

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/events"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/models"
)

type capturePublisher struct {
	published []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, event events.Event) error {
	c.published = append(c.published, event)
	return nil
}

func newTestStore(t *testing.T) (*Store, *capturePublisher) {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "assistant.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	seedFixtures(t, db)

	pub := &capturePublisher{}

	return NewStore(db, pub), pub
}

func seedFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	restaurants := []models.Restaurant{
		{Name: "Spice Symphony", City: "Mumbai", State: "MH", Cuisine: "Indian", Rating: 4.7},
		{Name: "Spice Garden", City: "Delhi", State: "DL", Cuisine: "Indian", Rating: 4.2},
		{Name: "Bella Napoli", City: "Mumbai", State: "MH", Cuisine: "Italian", Rating: 4.5},
		{Name: "Golden Dragon", City: "Mumbai", State: "MH", Cuisine: "Chinese", Rating: 3.8},
	}
	require.NoError(t, db.Create(&restaurants).Error)

	spice := restaurants[0].ID
	bella := restaurants[2].ID

	tables := []models.Table{
		{RestaurantID: spice, TableNumber: 1, Capacity: 4, IsAvailable: true},
		{RestaurantID: spice, TableNumber: 2, Capacity: 2, IsAvailable: true},
		{RestaurantID: spice, TableNumber: 3, Capacity: 8, IsAvailable: false},
		{RestaurantID: bella, TableNumber: 1, Capacity: 4, IsAvailable: true},
	}
	require.NoError(t, db.Create(&tables).Error)

	menus := []models.MenuItem{
		{RestaurantID: spice, ItemName: "Paneer Tikka", Category: "Appetizer", Price: 12.50, Availability: true},
		{RestaurantID: spice, ItemName: "Butter Chicken", Category: "Main Course", Price: 15.00, Availability: true},
		{RestaurantID: spice, ItemName: "Tomato Soup", Category: "Appetizer", Price: 10.00, Availability: false},
		{RestaurantID: bella, ItemName: "Margherita Pizza", Category: "Main Course", Price: 11.00, Availability: true},
	}
	require.NoError(t, db.Create(&menus).Error)

	require.NoError(t, db.Create(&models.FAQ{
		RestaurantID: spice,
		Question:     "Do you offer home delivery?",
		Answer:       "Yes, within 5 km.",
	}).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "555-0101",
		Password: string(hash),
	}).Error)
}

func TestResolveRestaurant(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	restaurant, err := store.ResolveRestaurant(ctx, "SPICE", "")
	require.NoError(t, err)
	assert.Equal(t, "Spice Symphony", restaurant.Name, "ambiguous match resolves to lowest id")

	restaurant, err = store.ResolveRestaurant(ctx, "spice", "delhi")
	require.NoError(t, err)
	assert.Equal(t, "Spice Garden", restaurant.Name)

	_, err = store.ResolveRestaurant(ctx, "Nonexistent Diner", "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Restaurant not found", notFound.Error())
}

func TestResolveMenuItem(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	restaurant, err := store.ResolveRestaurant(ctx, "Spice Symphony", "")
	require.NoError(t, err)

	item, err := store.ResolveMenuItem(ctx, restaurant.ID, "soup")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", item.ItemName)

	_, err = store.ResolveMenuItem(ctx, restaurant.ID, "Margherita")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound, "menu resolution is scoped to the restaurant")
	assert.Equal(t, "Menu item 'Margherita' not found", notFound.Error())
}

func TestSearchRestaurants(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	all, err := store.SearchRestaurants(ctx, SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	rated, err := store.SearchRestaurants(ctx, SearchFilter{MinRating: 4.5})
	require.NoError(t, err)
	require.Len(t, rated, 2)
	for _, r := range rated {
		assert.GreaterOrEqual(t, r.Rating, 4.5)
	}

	filtered, err := store.SearchRestaurants(ctx, SearchFilter{City: "MUMBAI", Cuisine: "indian"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Spice Symphony", filtered[0].Name)

	none, err := store.SearchRestaurants(ctx, SearchFilter{Name: "waffle"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTopRestaurants(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	top, err := store.TopRestaurants(ctx, "Mumbai", 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Spice Symphony", top[0].Name)
	assert.Equal(t, "Bella Napoli", top[1].Name)
	assert.Equal(t, "Golden Dragon", top[2].Name)
	for _, r := range top {
		assert.Equal(t, "Mumbai", r.City)
	}

	limited, err := store.TopRestaurants(ctx, "Mumbai", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	defaulted, err := store.TopRestaurants(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, 4, "limit defaults to 5")
}

func TestMenu(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	items, err := store.Menu(ctx, "Spice Symphony", "")
	require.NoError(t, err)
	assert.Len(t, items, 3, "menu includes unavailable items")

	_, err = store.Menu(ctx, "Nonexistent Diner", "")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAvailableTables(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tables, err := store.AvailableTables(ctx, "Spice Symphony", "")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	for _, table := range tables {
		assert.True(t, table.IsAvailable)
	}

	_, err = store.AvailableTables(ctx, "Nonexistent Diner", "")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFAQs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	faqs, err := store.FAQs(ctx, "spice symphony", "")
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Do you offer home delivery?", faqs[0].Question)

	empty, err := store.FAQs(ctx, "Bella", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBookTable(t *testing.T) {
	store, pub := newTestStore(t)
	ctx := context.Background()

	booking, err := store.BookTable(ctx, BookTableParams{
		RestaurantName: "Spice Symphony",
		CustomerName:   "Bob",
		BookingTime:    "2026-09-01 19:30:00",
		ContactNumber:  "555-0202",
		NumPeople:      4,
		TableNumber:    1,
	})
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.BookingStatusBooked, booking.Status)

	var count int64
	require.NoError(t, store.db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.BookingCreated, pub.published[0].Type)
	assert.Equal(t, booking.ID, pub.published[0].EntityID)
}

func TestBookTableUnknownRestaurant(t *testing.T) {
	store, pub := newTestStore(t)

	_, err := store.BookTable(context.Background(), BookTableParams{
		RestaurantName: "Nonexistent Diner",
		CustomerName:   "Bob",
		BookingTime:    "2026-09-01 19:30:00",
		ContactNumber:  "555-0202",
		NumPeople:      2,
		TableNumber:    1,
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Restaurant not found", notFound.Error())

	var count int64
	require.NoError(t, store.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, pub.published)
}

func TestBookTableUnknownTable(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.BookTable(context.Background(), BookTableParams{
		RestaurantName: "Spice Symphony",
		CustomerName:   "Bob",
		BookingTime:    "2026-09-01 19:30:00",
		ContactNumber:  "555-0202",
		NumPeople:      2,
		TableNumber:    42,
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Table not found", notFound.Error())
}

func TestBookTableBadTime(t *testing.T) {
	store, pub := newTestStore(t)

	_, err := store.BookTable(context.Background(), BookTableParams{
		RestaurantName: "Spice Symphony",
		CustomerName:   "Bob",
		BookingTime:    "tomorrow at 5",
		ContactNumber:  "555-0202",
		NumPeople:      2,
		TableNumber:    1,
	})
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Invalid booking_time format. Use 'YYYY-MM-DD HH:MM:SS'", invalid.Error())

	var count int64
	require.NoError(t, store.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, pub.published)
}

func TestPlaceOrder(t *testing.T) {
	store, pub := newTestStore(t)

	order, err := store.PlaceOrder(context.Background(), PlaceOrderParams{
		RestaurantName:  "Spice Symphony",
		CustomerName:    "Carol",
		Items:           []OrderLine{{Name: "Soup", Quantity: 2}, {Name: "Paneer", Quantity: 1}},
		DeliveryAddress: "12 Hill Road",
		ContactNumber:   "555-0303",
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 32.50, order.TotalAmount, 0.001, "2x10.00 soup + 1x12.50 paneer")

	var items []models.OrderItem
	require.NoError(t, store.db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.InDelta(t, 10.00, items[0].ItemPrice, 0.001, "price copied at order time")

	var stored models.Order
	require.NoError(t, store.db.First(&stored, order.ID).Error)
	assert.InDelta(t, 32.50, stored.TotalAmount, 0.001)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.OrderPlaced, pub.published[0].Type)
}

func TestPlaceOrderTotalStableAfterPriceChange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	order, err := store.PlaceOrder(ctx, PlaceOrderParams{
		RestaurantName:  "Spice Symphony",
		CustomerName:    "Carol",
		Items:           []OrderLine{{Name: "Tomato Soup", Quantity: 2}},
		DeliveryAddress: "12 Hill Road",
		ContactNumber:   "555-0303",
	})
	require.NoError(t, err)

	err = store.db.Model(&models.MenuItem{}).
		Where("item_name = ?", "Tomato Soup").
		Update("price", 99.0).Error
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, store.db.First(&stored, order.ID).Error)
	assert.InDelta(t, 20.00, stored.TotalAmount, 0.001)

	var item models.OrderItem
	require.NoError(t, store.db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.InDelta(t, 10.00, item.ItemPrice, 0.001)
}

func TestPlaceOrderRollsBackOnUnknownItem(t *testing.T) {
	store, pub := newTestStore(t)

	_, err := store.PlaceOrder(context.Background(), PlaceOrderParams{
		RestaurantName:  "Spice Symphony",
		CustomerName:    "Carol",
		Items:           []OrderLine{{Name: "Soup", Quantity: 2}, {Name: "Unobtainium", Quantity: 1}},
		DeliveryAddress: "12 Hill Road",
		ContactNumber:   "555-0303",
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Menu item 'Unobtainium' not found", notFound.Error())

	var orders, items int64
	require.NoError(t, store.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, store.db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders, "order row rolled back")
	assert.Zero(t, items, "item rows rolled back")
	assert.Empty(t, pub.published)
}

func TestCancelOrder(t *testing.T) {
	store, pub := newTestStore(t)
	ctx := context.Background()

	err := store.CancelOrder(ctx, 9999, "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Order not found", notFound.Error())

	order, err := store.PlaceOrder(ctx, PlaceOrderParams{
		RestaurantName:  "Spice Symphony",
		CustomerName:    "Carol",
		Items:           []OrderLine{{Name: "Soup", Quantity: 1}},
		DeliveryAddress: "12 Hill Road",
		ContactNumber:   "555-0303",
	})
	require.NoError(t, err)

	require.NoError(t, store.CancelOrder(ctx, order.ID, "changed my mind"))

	var stored models.Order
	require.NoError(t, store.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "changed my mind", *stored.CancellationReason)

	// re-cancelling an already cancelled order is accepted
	require.NoError(t, store.CancelOrder(ctx, order.ID, ""))

	require.NoError(t, store.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)

	var cancelEvents int
	for _, e := range pub.published {
		if e.Type == events.OrderCancelled {
			cancelEvents++
		}
	}
	assert.Equal(t, 2, cancelEvents)
}

func TestCancelBooking(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.CancelBooking(ctx, 9999, "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Booking not found", notFound.Error())

	booking, err := store.BookTable(ctx, BookTableParams{
		RestaurantName: "Spice Symphony",
		CustomerName:   "Bob",
		BookingTime:    "2026-09-01 19:30:00",
		ContactNumber:  "555-0202",
		NumPeople:      2,
		TableNumber:    2,
	})
	require.NoError(t, err)

	require.NoError(t, store.CancelBooking(ctx, booking.ID, ""))

	var stored models.Booking
	require.NoError(t, store.db.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
}

func TestSubmitReview(t *testing.T) {
	store, pub := newTestStore(t)
	ctx := context.Background()

	review, err := store.SubmitReview(ctx, SubmitReviewParams{
		RestaurantName: "Bella Napoli",
		CustomerName:   "Dave",
		Rating:         5,
		Comment:        "Great pizza.",
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	// out-of-range ratings are stored as given
	review, err = store.SubmitReview(ctx, SubmitReviewParams{
		RestaurantName: "Bella Napoli",
		CustomerName:   "Eve",
		Rating:         7,
		Comment:        "Off the scale.",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, review.Rating)

	_, err = store.SubmitReview(ctx, SubmitReviewParams{
		RestaurantName: "Nonexistent Diner",
		CustomerName:   "Dave",
		Rating:         3,
	})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	assert.Len(t, pub.published, 2)
}

func TestAuthenticateUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user, err := store.AuthenticateUser(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, wrongPassword := store.AuthenticateUser(ctx, "alice@example.com", "nope")
	_, unknownEmail := store.AuthenticateUser(ctx, "mallory@example.com", "s3cret")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error(), "auth failure must not reveal which part was wrong")
	assert.Equal(t, "Invalid email or password", wrongPassword.Error())
}
