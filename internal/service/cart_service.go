package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

type CartService struct {
	carts repository.CartRepository
}

func NewCartService(carts repository.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// List returns the cart of queryEmail, which must be the caller's own.
func (s *CartService) List(ctx context.Context, queryEmail, callerEmail string) ([]models.CartItem, error) {
	if queryEmail == "" {
		return []models.CartItem{}, nil
	}
	if queryEmail != callerEmail {
		return nil, ErrForbidden
	}
	return s.carts.ListByEmail(ctx, callerEmail)
}

func (s *CartService) Add(ctx context.Context, req models.AddToCartRequest, callerEmail string) (models.InsertResult, error) {
	courseID, err := parseID(req.CourseID)
	if err != nil {
		return models.InsertResult{}, err
	}

	item := &models.CartItem{
		UserEmail: callerEmail,
		CourseID:  courseID,
		Name:      req.Name,
		Image:     req.Image,
		Price:     req.Price,
		CreatedAt: time.Now(),
	}
	return s.carts.Create(ctx, item)
}

// Remove deletes one cart row owned by the caller. Missing rows are a no-op.
func (s *CartService) Remove(ctx context.Context, idHex, callerEmail string) (models.DeleteResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.DeleteResult{}, err
	}

	item, err := s.carts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	if err != nil {
		return models.DeleteResult{}, err
	}
	if item.UserEmail != callerEmail {
		return models.DeleteResult{}, ErrForbidden
	}
	return s.carts.DeleteOwned(ctx, callerEmail, id)
}
