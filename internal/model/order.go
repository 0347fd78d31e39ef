package model

// CustomerDetails holds the checkout form fields.
type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CartItem represents a line item in a cart or submitted order.
type CartItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category,omitempty"`
	Quantity    int    `json:"quantity"`
	IsVeg       bool   `json:"isVeg,omitempty"`
	IsSpicy     bool   `json:"isSpicy,omitempty"`
}

// Order is the shape a client submits at checkout. The server stores it as a
// Document and stamps OrderID, Date and Status itself.
type Order struct {
	OrderID         string          `json:"orderId"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	Items           []CartItem      `json:"items"`
	Total           float64         `json:"total"`
	Date            string          `json:"date"`
	Status          string          `json:"status,omitempty"`
}

// OrderFromDocument converts a stored record into an Order. Text fields of an
// unexpected type keep their JSON text, a string total is parsed, and
// anything unusable falls back to the zero value.
func OrderFromDocument(d Document) Order {
	details := d.Object("customerDetails")

	order := Order{
		OrderID: d.Text("orderId"),
		CustomerDetails: CustomerDetails{
			Name:    details.Text("name"),
			Email:   details.Text("email"),
			Phone:   details.Text("phone"),
			Address: details.Text("address"),
			Notes:   details.Text("notes"),
		},
		Items:  []CartItem{},
		Total:  d.Number("total"),
		Date:   d.Text("date"),
		Status: d.Text("status"),
	}

	for _, item := range d.Objects("items") {
		order.Items = append(order.Items, CartItem{
			ID:          item.Text("id"),
			Name:        item.Text("name"),
			Description: item.Text("description"),
			Price:       item.Text("price"),
			Category:    item.Text("category"),
			Quantity:    int(item.Number("quantity")),
			IsVeg:       item.Truthy("isVeg"),
			IsSpicy:     item.Truthy("isSpicy"),
		})
	}

	return order
}

// SubmitOrderResponse is returned by POST /api/orders.
type SubmitOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}
