package entity

import "time"

// Client cliente del club. Phone es único.
type Client struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
