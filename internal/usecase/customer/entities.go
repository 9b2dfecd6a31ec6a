package customer

import "time"

type CreateCustomerInput struct {
	Name  string
	Email string
}

type CustomerDTO struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}
