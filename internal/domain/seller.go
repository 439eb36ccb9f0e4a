package domain

import "time"

// Seller is a vendor account. Sellers additionally carry contact details
// used during shop onboarding.
type Seller struct {
	SellerID     string    `json:"id" dynamodbav:"seller_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"` // stored lowercased
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	PhoneNumber  string    `json:"phone_number" dynamodbav:"phone_number"`
	Country      string    `json:"country" dynamodbav:"country"`
	ShopID       string    `json:"shop_id,omitempty" dynamodbav:"shop_id"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Identity returns the resolved-caller view of the seller.
func (s *Seller) Identity() *Identity {
	return &Identity{ID: s.SellerID, Name: s.Name, Email: s.Email, Role: RoleSeller}
}

type RegisterSellerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

type VerifySellerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	OTP         string `json:"otp" validate:"required,len=4,numeric"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country" validate:"required"`
}
