package http

import (
	"github.com/vendora/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/vendora/api/internal/infrastructure/jwt"
	"github.com/vendora/api/internal/infrastructure/kvstore"
	s3infra "github.com/vendora/api/internal/infrastructure/s3"
	"github.com/vendora/api/internal/infrastructure/smtp"
	"github.com/vendora/api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	SellerRepo   *dynamo.SellerRepo
	ShopRepo     *dynamo.ShopRepo
	ProductRepo  *dynamo.ProductRepo
	DiscountRepo *dynamo.DiscountRepo
	KVStore      kvstore.Client
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
