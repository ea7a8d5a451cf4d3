package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// Tool wraps one store operation for invocation by name with a JSON
// argument object. It satisfies the langchaingo tools.Tool contract so the
// whole set can be handed to an agent executor directly.
//
// Call never surfaces a Go error for an operation failure: the agent reads
// a JSON payload either way, with failures shaped as {"error": "..."}.
type Tool struct {
	name        string
	description string
	run         func(ctx context.Context, raw json.RawMessage) (any, error)
}

var _ tools.Tool = (*Tool)(nil)

func (t *Tool) Name() string        { return t.name }
func (t *Tool) Description() string { return t.description }

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	out, err := t.run(ctx, json.RawMessage(input))
	if err != nil {
		return marshal(map[string]string{"error": err.Error()})
	}

	return marshal(out)
}

func marshal(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(payload), nil
}

type validator interface {
	Validate() error
}

func newTool[T validator](name, description string, run func(ctx context.Context, args T) (any, error)) *Tool {
	return &Tool{
		name:        name,
		description: description,
		run: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args T
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, validationf("Invalid JSON input format")
				}
			}
			if err := args.Validate(); err != nil {
				return nil, err
			}

			return run(ctx, args)
		},
	}
}

func requireFields(missing []string) error {
	if len(missing) == 0 {
		return nil
	}

	return validationf("missing or invalid fields: %s", strings.Join(missing, ", "))
}

type SearchRestaurantsArgs struct {
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Cuisine   string  `json:"cuisine"`
	MinRating float64 `json:"min_rating"`
}

func (a SearchRestaurantsArgs) Validate() error {
	if a.MinRating < 0 {
		return validationf("missing or invalid fields: min_rating")
	}

	return nil
}

type RestaurantArgs struct {
	RestaurantName string `json:"restaurant_name"`
	City           string `json:"city"`
}

func (a RestaurantArgs) Validate() error {
	if a.RestaurantName == "" {
		return requireFields([]string{"restaurant_name"})
	}

	return nil
}

type TopRestaurantsArgs struct {
	City  string `json:"city"`
	Limit int    `json:"limit"`
}

func (a TopRestaurantsArgs) Validate() error {
	if a.Limit < 0 {
		return validationf("missing or invalid fields: limit")
	}

	return nil
}

type BookTableArgs struct {
	RestaurantName string `json:"restaurant_name"`
	CustomerName   string `json:"customer_name"`
	BookingTime    string `json:"booking_time"`
	ContactNumber  string `json:"contact_number"`
	NumPeople      int    `json:"num_people"`
	TableNumber    int    `json:"table_number"`
	City           string `json:"city"`
}

func (a BookTableArgs) Validate() error {
	var missing []string
	if a.RestaurantName == "" {
		missing = append(missing, "restaurant_name")
	}
	if a.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if a.BookingTime == "" {
		missing = append(missing, "booking_time")
	}
	if a.ContactNumber == "" {
		missing = append(missing, "contact_number")
	}
	if a.NumPeople <= 0 {
		missing = append(missing, "num_people")
	}
	if a.TableNumber <= 0 {
		missing = append(missing, "table_number")
	}

	return requireFields(missing)
}

type PlaceOrderArgs struct {
	RestaurantName  string      `json:"restaurant_name"`
	CustomerName    string      `json:"customer_name"`
	Items           []OrderLine `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	ContactNumber   string      `json:"contact_number"`
	City            string      `json:"city"`
}

func (a PlaceOrderArgs) Validate() error {
	var missing []string
	if a.RestaurantName == "" {
		missing = append(missing, "restaurant_name")
	}
	if a.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if len(a.Items) == 0 {
		missing = append(missing, "items")
	}
	for _, line := range a.Items {
		if line.Name == "" || line.Quantity <= 0 {
			missing = append(missing, "items")
			break
		}
	}
	if a.DeliveryAddress == "" {
		missing = append(missing, "delivery_address")
	}
	if a.ContactNumber == "" {
		missing = append(missing, "contact_number")
	}

	return requireFields(missing)
}

type CancelOrderArgs struct {
	OrderID uint64 `json:"order_id"`
	Reason  string `json:"reason"`
}

func (a CancelOrderArgs) Validate() error {
	if a.OrderID == 0 {
		return requireFields([]string{"order_id"})
	}

	return nil
}

type CancelBookingArgs struct {
	BookingID uint64 `json:"booking_id"`
	Reason    string `json:"reason"`
}

func (a CancelBookingArgs) Validate() error {
	if a.BookingID == 0 {
		return requireFields([]string{"booking_id"})
	}

	return nil
}

type SubmitReviewArgs struct {
	RestaurantName string `json:"restaurant_name"`
	CustomerName   string `json:"customer_name"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
	City           string `json:"city"`
}

func (a SubmitReviewArgs) Validate() error {
	var missing []string
	if a.RestaurantName == "" {
		missing = append(missing, "restaurant_name")
	}
	if a.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if a.Rating == 0 {
		missing = append(missing, "rating")
	}

	return requireFields(missing)
}

type AuthenticateUserArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a AuthenticateUserArgs) Validate() error {
	var missing []string
	if a.Email == "" {
		missing = append(missing, "email")
	}
	if a.Password == "" {
		missing = append(missing, "password")
	}

	return requireFields(missing)
}

// Registry holds every assistant tool, addressable by name.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

func NewRegistry(store *Store) *Registry {
	all := []*Tool{
		newTool("search_restaurants",
			"Search restaurants by name, city, cuisine, or minimum rating.\n"+
				"Input: JSON with optional keys: name (str), city (str), cuisine (str), min_rating (float).",
			func(ctx context.Context, args SearchRestaurantsArgs) (any, error) {
				return store.SearchRestaurants(ctx, SearchFilter{
					Name:      args.Name,
					City:      args.City,
					Cuisine:   args.Cuisine,
					MinRating: args.MinRating,
				})
			}),
		newTool("get_menu",
			"Get the menu for a restaurant.\n"+
				"Input: JSON with keys: restaurant_name (str), optional city (str).",
			func(ctx context.Context, args RestaurantArgs) (any, error) {
				return store.Menu(ctx, args.RestaurantName, args.City)
			}),
		newTool("get_available_tables",
			"Check available tables at a restaurant.\n"+
				"Input: JSON with keys: restaurant_name (str), optional city (str).",
			func(ctx context.Context, args RestaurantArgs) (any, error) {
				return store.AvailableTables(ctx, args.RestaurantName, args.City)
			}),
		newTool("get_faqs",
			"Retrieve frequently asked questions (FAQs) for a restaurant.\n"+
				"Input: JSON with keys: restaurant_name (str), optional city (str).",
			func(ctx context.Context, args RestaurantArgs) (any, error) {
				return store.FAQs(ctx, args.RestaurantName, args.City)
			}),
		newTool("get_top_restaurants",
			"Retrieve top-rated restaurants, optionally filtered by city.\n"+
				"Input: JSON with optional keys: city (str), limit (int, default 5).",
			func(ctx context.Context, args TopRestaurantsArgs) (any, error) {
				return store.TopRestaurants(ctx, args.City, args.Limit)
			}),
		newTool("book_table",
			"Book a table at a restaurant.\n"+
				"Input: JSON with keys: restaurant_name, customer_name, booking_time (YYYY-MM-DD HH:MM:SS), "+
				"contact_number, num_people, table_number, optional city.",
			func(ctx context.Context, args BookTableArgs) (any, error) {
				booking, err := store.BookTable(ctx, BookTableParams{
					RestaurantName: args.RestaurantName,
					CustomerName:   args.CustomerName,
					BookingTime:    args.BookingTime,
					ContactNumber:  args.ContactNumber,
					NumPeople:      args.NumPeople,
					TableNumber:    args.TableNumber,
					City:           args.City,
				})
				if err != nil {
					return nil, err
				}

				return map[string]any{"message": "Table booked successfully", "booking_id": booking.ID}, nil
			}),
		newTool("place_order",
			"Place a food order from a restaurant.\n"+
				"Input: JSON with keys: restaurant_name, customer_name, items (list of {\"name\": str, \"quantity\": int}), "+
				"delivery_address, contact_number, optional city.",
			func(ctx context.Context, args PlaceOrderArgs) (any, error) {
				order, err := store.PlaceOrder(ctx, PlaceOrderParams{
					RestaurantName:  args.RestaurantName,
					CustomerName:    args.CustomerName,
					Items:           args.Items,
					DeliveryAddress: args.DeliveryAddress,
					ContactNumber:   args.ContactNumber,
					City:            args.City,
				})
				if err != nil {
					return nil, err
				}

				return map[string]any{"message": "Order placed", "order_id": order.ID}, nil
			}),
		newTool("cancel_order",
			"Cancel a previously placed order.\n"+
				"Input: JSON with key: order_id (int), optional reason (str).",
			func(ctx context.Context, args CancelOrderArgs) (any, error) {
				if err := store.CancelOrder(ctx, args.OrderID, args.Reason); err != nil {
					return nil, err
				}

				return map[string]any{"message": "Order cancelled"}, nil
			}),
		newTool("cancel_booking",
			"Cancel a table booking.\n"+
				"Input: JSON with key: booking_id (int), optional reason (str).",
			func(ctx context.Context, args CancelBookingArgs) (any, error) {
				if err := store.CancelBooking(ctx, args.BookingID, args.Reason); err != nil {
					return nil, err
				}

				return map[string]any{"message": "Booking cancelled"}, nil
			}),
		newTool("submit_review",
			"Submit a review for a restaurant.\n"+
				"Input: JSON with keys: restaurant_name (str), customer_name (str), rating (int from 1 to 5), "+
				"comment (str), optional city (str).",
			func(ctx context.Context, args SubmitReviewArgs) (any, error) {
				_, err := store.SubmitReview(ctx, SubmitReviewParams{
					RestaurantName: args.RestaurantName,
					CustomerName:   args.CustomerName,
					Rating:         args.Rating,
					Comment:        args.Comment,
					City:           args.City,
				})
				if err != nil {
					return nil, err
				}

				return map[string]any{"message": "Review submitted successfully"}, nil
			}),
		newTool("authenticate_user",
			"Authenticate a registered user using email and password.\n"+
				"Input: JSON with keys: email (str), password (str).",
			func(ctx context.Context, args AuthenticateUserArgs) (any, error) {
				user, err := store.AuthenticateUser(ctx, args.Email, args.Password)
				if err != nil {
					return nil, err
				}

				return map[string]any{"message": "Login successful", "user_id": user.ID}, nil
			}),
	}

	byName := make(map[string]*Tool, len(all))
	for _, t := range all {
		byName[t.name] = t
	}

	return &Registry{tools: all, byName: byName}
}

// Tools returns the set in registration order for an agent executor.
func (r *Registry) Tools() []tools.Tool {
	out := make([]tools.Tool, len(r.tools))
	for i, t := range r.tools {
		out[i] = t
	}

	return out
}

func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Call invokes a tool by name with a JSON argument object. Unknown names
// come back as an error payload, same as every other failure.
func (r *Registry) Call(ctx context.Context, name, args string) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return marshal(map[string]string{"error": "Unknown tool '" + name + "'"})
	}

	return t.Call(ctx, args)
}
