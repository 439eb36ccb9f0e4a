package domain

import "time"

// Product is a seller listing. Images live in S3; the record stores keys and
// public URLs only.
type Product struct {
	ProductID   string         `json:"id" dynamodbav:"product_id"`
	SellerID    string         `json:"seller_id" dynamodbav:"seller_id"`
	ShopID      string         `json:"shop_id" dynamodbav:"shop_id"`
	Title       string         `json:"title" dynamodbav:"title"`
	Description string         `json:"description" dynamodbav:"description"`
	Category    string         `json:"category" dynamodbav:"category"`
	Tags        []string       `json:"tags" dynamodbav:"tags"`
	Price       int64          `json:"price" dynamodbav:"price"` // minor units
	SalePrice   int64          `json:"sale_price,omitempty" dynamodbav:"sale_price"`
	Stock       int            `json:"stock" dynamodbav:"stock"`
	Images      []ProductImage `json:"images" dynamodbav:"images"`
	CreatedAt   time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time      `json:"updated" dynamodbav:"updated_at"`
}

type ProductImage struct {
	Key string `json:"key" dynamodbav:"key"`
	URL string `json:"url" dynamodbav:"url"`
}

// DiscountCode is a seller-owned promotion code.
type DiscountCode struct {
	CodeID    string    `json:"id" dynamodbav:"code_id"`
	SellerID  string    `json:"seller_id" dynamodbav:"seller_id"`
	Code      string    `json:"code" dynamodbav:"code"`
	Type      string    `json:"type" dynamodbav:"type"` // "percentage" | "flat"
	Value     int64     `json:"value" dynamodbav:"value"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	SalePrice   int64    `json:"sale_price" validate:"omitempty,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
}

type AttachImageRequest struct {
	FileName string `json:"file_name" validate:"required"`
	Data     string `json:"data" validate:"required"` // base64
}

type CreateDiscountCodeRequest struct {
	Code  string `json:"code" validate:"required,alphanum,min=3,max=24"`
	Type  string `json:"type" validate:"required,oneof=percentage flat"`
	Value int64  `json:"value" validate:"required,gt=0"`
}
