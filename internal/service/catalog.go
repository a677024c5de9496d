package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sokosmart/backend/internal/models"
	"github.com/sokosmart/backend/internal/repo"
	"github.com/sokosmart/backend/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) GetOwnProducts(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error) {
	return s.Repo.GetProductsByFarmer(ctx, farmerID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, farmerID uuid.UUID, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}

	product := &models.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		FarmerID: farmerID,
	}
	return s.Repo.CreateProduct(ctx, product)
}

func (s *CatalogService) PatchProduct(ctx context.Context, farmerID, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	if product.FarmerID != farmerID {
		return nil, fmt.Errorf("%w: not the owner of this product", ErrForbidden)
	}

	return s.Repo.PatchProduct(ctx, req, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, farmerID, id uuid.UUID) error {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}
	if product.FarmerID != farmerID {
		return fmt.Errorf("%w: not the owner of this product", ErrForbidden)
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrOpenOrders) {
			return fmt.Errorf("%w: product has open orders", ErrConflict)
		}
		if errIsNotFound(err) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}
	return nil
}
