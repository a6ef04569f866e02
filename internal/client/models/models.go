// Package models defines the payload types exchanged with the Bocado
// backend. Field names follow the wire format (snake_case JSON).
package models

import "time"

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Price       Amount `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    int64  `json:"category"`
	Available   bool   `json:"is_available"`
	Rating      Amount `json:"rating"`
}

// Pagination mirrors the list envelope the backend uses for long collections.
type Pagination struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the full representation every cart endpoint returns. Mutations
// replace client state with it wholesale; nothing is merged locally.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice Amount     `json:"total_price"`
}

type OrderItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    Amount  `json:"price"`
}

type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalPrice      Amount      `json:"total_price"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type Review struct {
	ID        int64     `json:"id"`
	Product   string    `json:"product"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
