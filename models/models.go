package models

import (
	"fmt"
	"time"
)

// Status values for bookings.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Status values for orders.
const (
	OrderStatusPending   = "pending"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

type Restaurant struct {
	ID            uint64  `gorm:"primaryKey" json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zipcode       string  `json:"zipcode"`
	Cuisine       string  `json:"cuisine"`
	Rating        float64 `json:"rating"`
	Phone         string  `json:"phone"`
	OpeningHours  string  `json:"opening_hours"`
	AvgCostForTwo int     `json:"avg_cost_for_two"`
	ImageURL      string  `json:"image_url"`
}

func (r *Restaurant) TableName() string {
	return "restaurants"
}

func (r *Restaurant) Stringify() string {
	return fmt.Sprintf("Restaurant: %s, City: %s, Cuisine: %s, Rating: %.1f, Avg cost for two: %d", r.Name, r.City, r.Cuisine, r.Rating, r.AvgCostForTwo)
}

type Table struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	RestaurantID uint64 `json:"restaurant_id"`
	TableNumber  int    `json:"table_number"`
	Capacity     int    `json:"capacity"`
	IsAvailable  bool   `json:"is_available"`
}

func (t *Table) TableName() string {
	return "tables"
}

type MenuItem struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	RestaurantID uint64  `json:"restaurant_id"`
	ItemName     string  `json:"item_name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Availability bool    `json:"availability"`
}

func (m *MenuItem) TableName() string {
	return "menus"
}

func (m *MenuItem) Stringify() string {
	return fmt.Sprintf("MenuItem: %s, Category: %s, Price: %.2f, Description: %s", m.ItemName, m.Category, m.Price, m.Description)
}

type Booking struct {
	ID                 uint64     `gorm:"primaryKey" json:"id"`
	RestaurantID       uint64     `json:"restaurant_id"`
	TableID            uint64     `json:"table_id"`
	CustomerName       string     `json:"customer_name"`
	BookingTime        time.Time  `json:"booking_time"`
	ContactNumber      string     `json:"contact_number"`
	NumPeople          int        `json:"num_people"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (b *Booking) TableName() string {
	return "bookings"
}

type Order struct {
	ID                 uint64     `gorm:"primaryKey" json:"id"`
	RestaurantID       uint64     `json:"restaurant_id"`
	CustomerName       string     `json:"customer_name"`
	DeliveryAddress    string     `json:"delivery_address"`
	ContactNumber      string     `json:"contact_number"`
	TotalAmount        float64    `json:"total_amount"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderItem records the menu item price at order time. Later menu price
// changes must not move historical order totals.
type OrderItem struct {
	ID         uint64  `gorm:"primaryKey" json:"id"`
	OrderID    uint64  `json:"order_id"`
	MenuItemID uint64  `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	ItemPrice  float64 `json:"item_price"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

type Review struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	RestaurantID uint64    `json:"restaurant_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Review) TableName() string {
	return "reviews"
}

type FAQ struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	RestaurantID uint64 `json:"restaurant_id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
}

func (f *FAQ) TableName() string {
	return "faqs"
}

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) TableName() string {
	return "users"
}

// All lists every entity, for migrations.
func All() []interface{} {
	return []interface{}{
		&Restaurant{},
		&User{},
		&Table{},
		&MenuItem{},
		&Booking{},
		&Order{},
		&OrderItem{},
		&Review{},
		&FAQ{},
	}
}
