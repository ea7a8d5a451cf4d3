package main

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/config"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/models"
)

// Every seeded user gets this password, bcrypt-hashed, so authenticate_user
// can be exercised against any of them.
const seedPassword = "password123"

var (
	cuisines   = []string{"Italian", "Chinese", "Indian", "Mexican", "French", "Japanese", "Mediterranean", "Thai", "American"}
	categories = []string{"Appetizer", "Main Course", "Dessert", "Beverage"}
	dishes     = []string{"Soup", "Salad", "Pizza", "Pasta", "Burger", "Sushi", "Steak"}
)

func main() {
	cfg := config.LoadConfig()

	db, err := gorm.Open(postgres.Open(cfg.Postgres.ConnStr()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to postgres:", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate schema:", err)
	}

	seeder := &Seeder{db: db, faker: gofakeit.New(0)}

	restaurants := orDefault(cfg.Seed.Restaurants, 200)
	users := orDefault(cfg.Seed.Users, 100)
	bookings := orDefault(cfg.Seed.Bookings, 300)
	orders := orDefault(cfg.Seed.Orders, 300)

	if err := seeder.Run(restaurants, users, bookings, orders); err != nil {
		log.Fatal(err)
	}

	slog.Info("seed complete", "restaurants", restaurants, "users", users, "bookings", bookings, "orders", orders, "password", seedPassword)
}

func orDefault(n, fallback int) int {
	if n <= 0 {
		return fallback
	}

	return n
}

type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

func (s *Seeder) Run(nRestaurants, nUsers, nBookings, nOrders int) error {
	restaurants, err := s.insertRestaurants(nRestaurants)
	if err != nil {
		return fmt.Errorf("restaurants: %w", err)
	}

	if err := s.insertUsers(nUsers); err != nil {
		return fmt.Errorf("users: %w", err)
	}

	tables, err := s.insertTables(restaurants)
	if err != nil {
		return fmt.Errorf("tables: %w", err)
	}

	menus, err := s.insertMenus(restaurants)
	if err != nil {
		return fmt.Errorf("menus: %w", err)
	}

	if err := s.insertBookings(nBookings, tables); err != nil {
		return fmt.Errorf("bookings: %w", err)
	}

	if err := s.insertOrders(nOrders, restaurants, menus); err != nil {
		return fmt.Errorf("orders: %w", err)
	}

	if err := s.insertReviews(restaurants); err != nil {
		return fmt.Errorf("reviews: %w", err)
	}

	if err := s.insertFAQs(restaurants); err != nil {
		return fmt.Errorf("faqs: %w", err)
	}

	return nil
}

func (s *Seeder) insertRestaurants(n int) ([]models.Restaurant, error) {
	slog.Info("inserting restaurants", "count", n)

	restaurants := make([]models.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		addr := s.faker.Address()
		restaurants = append(restaurants, models.Restaurant{
			Name:          s.faker.Company(),
			Address:       addr.Street,
			City:          addr.City,
			State:         addr.State,
			Zipcode:       addr.Zip,
			Cuisine:       pick(s.faker, cuisines),
			Rating:        round1(s.faker.Float64Range(1.0, 5.0)),
			Phone:         s.faker.Phone(),
			OpeningHours:  "Mon-Sun 10:00 AM - 10:00 PM",
			AvgCostForTwo: s.faker.Number(1, 100) * 10,
			ImageURL:      s.faker.ImageURL(640, 480),
		})
	}

	if err := s.db.CreateInBatches(&restaurants, 100).Error; err != nil {
		return nil, err
	}

	return restaurants, nil
}

func (s *Seeder) insertUsers(n int) error {
	slog.Info("inserting users", "count", n)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, models.User{
			Name:     s.faker.Name(),
			Email:    fmt.Sprintf("user%d@%s", i+1, s.faker.DomainName()),
			Phone:    s.faker.Phone(),
			Password: string(hash),
		})
	}

	return s.db.CreateInBatches(&users, 100).Error
}

func (s *Seeder) insertTables(restaurants []models.Restaurant) ([]models.Table, error) {
	slog.Info("inserting tables")

	tables := make([]models.Table, 0, len(restaurants)*5)
	for _, r := range restaurants {
		count := s.faker.Number(1, 10)
		for num := 1; num <= count; num++ {
			tables = append(tables, models.Table{
				RestaurantID: r.ID,
				TableNumber:  num,
				Capacity:     pick(s.faker, []int{2, 4, 6, 8}),
				IsAvailable:  true,
			})
		}
	}

	if err := s.db.CreateInBatches(&tables, 200).Error; err != nil {
		return nil, err
	}

	return tables, nil
}

func (s *Seeder) insertMenus(restaurants []models.Restaurant) ([]models.MenuItem, error) {
	slog.Info("inserting menus")

	items := make([]models.MenuItem, 0, len(restaurants)*10)
	for _, r := range restaurants {
		count := s.faker.Number(5, 20)
		for i := 0; i < count; i++ {
			items = append(items, models.MenuItem{
				RestaurantID: r.ID,
				ItemName:     s.faker.Adjective() + " " + pick(s.faker, dishes),
				Category:     pick(s.faker, categories),
				Price:        round2(s.faker.Float64Range(5.0, 50.0)),
				Description:  s.faker.Sentence(10),
				Availability: s.faker.Bool(),
			})
		}
	}

	if err := s.db.CreateInBatches(&items, 200).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Seeder) insertBookings(n int, tables []models.Table) error {
	slog.Info("inserting bookings", "count", n)

	if len(tables) == 0 {
		return nil
	}

	now := time.Now()
	bookings := make([]models.Booking, 0, n)
	for i := 0; i < n; i++ {
		table := tables[s.faker.Number(0, len(tables)-1)]
		booking := models.Booking{
			RestaurantID:  table.RestaurantID,
			TableID:       table.ID,
			CustomerName:  s.faker.Name(),
			BookingTime:   s.faker.DateRange(now.AddDate(-1, 0, 0), now),
			ContactNumber: s.faker.Phone(),
			NumPeople:     s.faker.Number(1, table.Capacity),
			Status:        weightedStatus(s.faker, models.BookingStatusBooked, models.BookingStatusCancelled, models.BookingStatusCompleted),
		}
		if booking.Status == models.BookingStatusCancelled {
			reason := s.faker.Sentence(6)
			cancelledAt := s.faker.DateRange(booking.BookingTime.AddDate(0, 0, -7), booking.BookingTime)
			booking.CancellationReason = &reason
			booking.CancelledAt = &cancelledAt
		}
		bookings = append(bookings, booking)
	}

	return s.db.CreateInBatches(&bookings, 200).Error
}

func (s *Seeder) insertOrders(n int, restaurants []models.Restaurant, menus []models.MenuItem) error {
	slog.Info("inserting orders", "count", n)

	menusByRestaurant := make(map[uint64][]models.MenuItem)
	for _, m := range menus {
		menusByRestaurant[m.RestaurantID] = append(menusByRestaurant[m.RestaurantID], m)
	}

	for i := 0; i < n; i++ {
		restaurant := restaurants[s.faker.Number(0, len(restaurants)-1)]
		available := menusByRestaurant[restaurant.ID]
		if len(available) == 0 {
			continue
		}

		order := models.Order{
			RestaurantID:    restaurant.ID,
			CustomerName:    s.faker.Name(),
			DeliveryAddress: s.faker.Address().Address,
			ContactNumber:   s.faker.Phone(),
			Status:          weightedStatus(s.faker, models.OrderStatusPending, models.OrderStatusCancelled, models.OrderStatusCompleted),
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			var total float64
			lines := s.faker.Number(1, 4)
			for j := 0; j < lines; j++ {
				menuItem := available[s.faker.Number(0, len(available)-1)]
				quantity := s.faker.Number(1, 3)
				total += menuItem.Price * float64(quantity)
				item := models.OrderItem{
					OrderID:    order.ID,
					MenuItemID: menuItem.ID,
					Quantity:   quantity,
					ItemPrice:  menuItem.Price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}

			return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("total_amount", total).Error
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) insertReviews(restaurants []models.Restaurant) error {
	slog.Info("inserting reviews")

	reviews := make([]models.Review, 0)
	for _, r := range restaurants {
		count := s.faker.Number(0, 5)
		for i := 0; i < count; i++ {
			reviews = append(reviews, models.Review{
				RestaurantID: r.ID,
				CustomerName: s.faker.Name(),
				Rating:       s.faker.Number(1, 5),
				Comment:      s.faker.Sentence(12),
			})
		}
	}

	if len(reviews) == 0 {
		return nil
	}

	return s.db.CreateInBatches(&reviews, 200).Error
}

func (s *Seeder) insertFAQs(restaurants []models.Restaurant) error {
	slog.Info("inserting faqs")

	questions := []string{
		"Do you offer home delivery?",
		"Is parking available?",
		"Do you have vegetarian options?",
		"Can I bring my own cake?",
		"Do you take large group reservations?",
	}

	faqs := make([]models.FAQ, 0, len(restaurants)*2)
	for _, r := range restaurants {
		count := s.faker.Number(1, 3)
		for i := 0; i < count; i++ {
			faqs = append(faqs, models.FAQ{
				RestaurantID: r.ID,
				Question:     pick(s.faker, questions),
				Answer:       s.faker.Sentence(10),
			})
		}
	}

	return s.db.CreateInBatches(&faqs, 200).Error
}

func pick[T any](f *gofakeit.Faker, options []T) T {
	return options[f.Number(0, len(options)-1)]
}

// weightedStatus skews 70/20/10 towards the active status, same shape the
// platform sees in production data.
func weightedStatus(f *gofakeit.Faker, active, cancelled, completed string) string {
	switch n := f.Number(1, 10); {
	case n <= 7:
		return active
	case n <= 9:
		return cancelled
	default:
		return completed
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
