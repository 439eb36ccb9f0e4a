package domain

import "time"

// Shop is a seller's storefront.
type Shop struct {
	ShopID       string    `json:"id" dynamodbav:"shop_id"`
	SellerID     string    `json:"seller_id" dynamodbav:"seller_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Bio          string    `json:"bio" dynamodbav:"bio"`
	Address      string    `json:"address" dynamodbav:"address"`
	Category     string    `json:"category" dynamodbav:"category"`
	Website      string    `json:"website,omitempty" dynamodbav:"website"`
	OpeningHours string    `json:"opening_hours" dynamodbav:"opening_hours"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateShopRequest struct {
	Name         string `json:"name" validate:"required"`
	Bio          string `json:"bio" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Website      string `json:"website" validate:"omitempty,url"`
	OpeningHours string `json:"opening_hours" validate:"required"`
}
