package httpx

import "time"

// CustomerCreate is the body of POST /customers/.
type CustomerCreate struct {
	Email           string  `json:"email" validate:"required,email,max=255"`
	FirstName       string  `json:"first_name" validate:"min=1,max=255"`
	LastName        string  `json:"last_name" validate:"min=1,max=255"`
	PhoneNumber     *string `json:"phone_number" validate:"omitnil,max=50"`
	ShippingAddress *string `json:"shipping_address" validate:"omitnil,max=1000"`
	// bcrypt only reads the first 72 bytes.
	Password string `json:"password" validate:"min=8,max=72"`
}

// CustomerUpdate is the body of PUT /customers/{id}.
type CustomerUpdate struct {
	Email           *string `json:"email" validate:"omitnil,email,max=255"`
	FirstName       *string `json:"first_name" validate:"omitnil,min=1,max=255"`
	LastName        *string `json:"last_name" validate:"omitnil,min=1,max=255"`
	PhoneNumber     *string `json:"phone_number" validate:"omitnil,max=50"`
	ShippingAddress *string `json:"shipping_address" validate:"omitnil,max=1000"`
	Password        *string `json:"password" validate:"omitnil,min=8,max=72"`
}

// CustomerResponse never carries the password or its hash.
type CustomerResponse struct {
	CustomerID      int64      `json:"customer_id" validate:"required"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	PhoneNumber     *string    `json:"phone_number"`
	ShippingAddress *string    `json:"shipping_address"`
	CreatedAt       time.Time  `json:"created_at" validate:"required"`
	UpdatedAt       *time.Time `json:"updated_at"`
}
