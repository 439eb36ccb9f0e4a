// Package product implements the seller catalog: shops, product
// listings with S3-backed images, and discount codes. Every mutation is
// checked against the owning seller.
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/pkg/id"
)

type ShopStore interface {
	Put(ctx context.Context, s *domain.Shop) error
	Get(ctx context.Context, shopID string) (*domain.Shop, error)
	GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error)
}

type ProductStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
	Delete(ctx context.Context, productID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Product, string, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
}

type DiscountStore interface {
	Put(ctx context.Context, d *domain.DiscountCode) error
	Get(ctx context.Context, codeID string) (*domain.DiscountCode, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.DiscountCode, error)
	Delete(ctx context.Context, codeID string) error
}

// SellerLinker records the shop a seller owns on the seller record.
type SellerLinker interface {
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

// ImageStore holds product images.
type ImageStore interface {
	UploadBase64(ctx context.Context, key, data string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	shops     ShopStore
	products  ProductStore
	discounts DiscountStore
	sellers   SellerLinker
	images    ImageStore
}

func NewService(shops ShopStore, products ProductStore, discounts DiscountStore, sellers SellerLinker, images ImageStore) *Service {
	return &Service{shops: shops, products: products, discounts: discounts, sellers: sellers, images: images}
}

// CreateShop creates the seller's storefront. A seller owns at most one
// shop.
func (s *Service) CreateShop(ctx context.Context, sellerID string, req domain.CreateShopRequest) (*domain.Shop, error) {
	_, err := s.shops.GetBySeller(ctx, sellerID)
	if err == nil {
		return nil, fmt.Errorf("seller already owns a shop: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	shop := &domain.Shop{
		ShopID:       id.New(),
		SellerID:     sellerID,
		Name:         req.Name,
		Bio:          req.Bio,
		Address:      req.Address,
		Category:     req.Category,
		Website:      req.Website,
		OpeningHours: req.OpeningHours,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.shops.Put(ctx, shop); err != nil {
		return nil, err
	}
	if err := s.sellers.Update(ctx, sellerID, map[string]interface{}{"shop_id": shop.ShopID}); err != nil {
		slog.Warn("could not link shop to seller", "seller_id", sellerID, "shop_id", shop.ShopID, "err", err)
	}
	return shop, nil
}

func (s *Service) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	return s.shops.Get(ctx, shopID)
}

// CreateProduct lists a product under the seller's shop. The seller
// must have created a shop first.
func (s *Service) CreateProduct(ctx context.Context, sellerID string, req domain.CreateProductRequest) (*domain.Product, error) {
	shop, err := s.shops.GetBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("create a shop before listing products: %w", domain.ErrBadRequest)
		}
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ProductID:   id.New(),
		SellerID:    sellerID,
		ShopID:      shop.ShopID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		Images:      []domain.ProductImage{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.products.Get(ctx, productID)
}

// ListProducts returns a public catalog page.
func (s *Service) ListProducts(ctx context.Context, limit int32, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.products.ScanPage(ctx, limit, cursor)
}

// ListSellerProducts returns everything the seller has listed.
func (s *Service) ListSellerProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}

// UpdateProduct rewrites the listing fields of a product the seller owns.
func (s *Service) UpdateProduct(ctx context.Context, sellerID, productID string, req domain.CreateProductRequest) (*domain.Product, error) {
	if _, err := s.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"tags":        req.Tags,
		"price":       req.Price,
		"sale_price":  req.SalePrice,
		"stock":       req.Stock,
	}
	if err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

// DeleteProduct removes a product the seller owns, along with its
// stored images. Image cleanup is best effort.
func (s *Service) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return err
	}
	for _, img := range p.Images {
		if err := s.images.Delete(ctx, img.Key); err != nil {
			slog.Warn("could not delete product image", "key", img.Key, "err", err)
		}
	}
	return s.products.Delete(ctx, productID)
}

// AttachImage uploads a base64 image and appends it to the product.
func (s *Service) AttachImage(ctx context.Context, sellerID, productID string, req domain.AttachImageRequest) (*domain.Product, error) {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s-%s", productID, id.New(), req.FileName)
	url, err := s.images.UploadBase64(ctx, key, req.Data)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	images := append(p.Images, domain.ProductImage{Key: key, URL: url})
	if err := s.products.Update(ctx, productID, map[string]interface{}{"images": images}); err != nil {
		return nil, err
	}
	p.Images = images
	return p, nil
}

// RemoveImage deletes one image from the product and from storage.
func (s *Service) RemoveImage(ctx context.Context, sellerID, productID, key string) error {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return err
	}

	kept := make([]domain.ProductImage, 0, len(p.Images))
	found := false
	for _, img := range p.Images {
		if img.Key == key {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return fmt.Errorf("image not found on product: %w", domain.ErrNotFound)
	}

	if err := s.images.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return s.products.Update(ctx, productID, map[string]interface{}{"images": kept})
}

// CreateDiscountCode registers a promotion code owned by the seller.
func (s *Service) CreateDiscountCode(ctx context.Context, sellerID string, req domain.CreateDiscountCodeRequest) (*domain.DiscountCode, error) {
	existing, err := s.discounts.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		if d.Code == req.Code {
			return nil, fmt.Errorf("discount code already exists: %w", domain.ErrConflict)
		}
	}

	d := &domain.DiscountCode{
		CodeID:    id.New(),
		SellerID:  sellerID,
		Code:      req.Code,
		Type:      req.Type,
		Value:     req.Value,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.discounts.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDiscountCodes(ctx context.Context, sellerID string) ([]domain.DiscountCode, error) {
	return s.discounts.ListBySeller(ctx, sellerID)
}

func (s *Service) DeleteDiscountCode(ctx context.Context, sellerID, codeID string) error {
	d, err := s.discounts.Get(ctx, codeID)
	if err != nil {
		return err
	}
	if d.SellerID != sellerID {
		return fmt.Errorf("discount code belongs to another seller: %w", domain.ErrForbidden)
	}
	return s.discounts.Delete(ctx, codeID)
}

// ownedProduct loads a product and verifies the seller owns it.
func (s *Service) ownedProduct(ctx context.Context, sellerID, productID string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, fmt.Errorf("product belongs to another seller: %w", domain.ErrForbidden)
	}
	return p, nil
}
