package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/dinein-backend/models"
	"gorm.io/gorm"
)

type RestaurantService struct {
	db *gorm.DB
}

type RestaurantInput struct {
	Name        *string
	Description *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	Status      *string
}

func (in RestaurantInput) apply(r *models.Restaurant) error {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Email != nil {
		r.Email = *in.Email
	}
	if in.Phone != nil {
		r.Phone = *in.Phone
	}
	if in.Address != nil {
		r.Address = *in.Address
	}
	if in.City != nil {
		r.City = *in.City
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if r.Name == "" {
		return ValidationError("Restaurant name is required")
	}
	if !models.ValidRestaurantStatus(r.Status) {
		return ValidationError("Invalid restaurant status")
	}
	return nil
}

func (s *RestaurantService) Create(ctx context.Context, actor Actor, in RestaurantInput) (*models.Restaurant, error) {
	if !actor.IsPlatformAdmin() {
		return nil, ForbiddenError("Only administrators can create restaurants")
	}
	r := models.Restaurant{Status: models.RestaurantDraft, CreatedByID: &actor.UserID}
	if err := in.apply(&r); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, UnexpectedError("create restaurant", err)
	}
	return &r, nil
}

func (s *RestaurantService) List(ctx context.Context, actor Actor) ([]models.Restaurant, error) {
	q := s.db.WithContext(ctx).Order("name")
	if !actor.IsPlatformAdmin() {
		if actor.RestaurantID == nil {
			return []models.Restaurant{}, nil
		}
		q = q.Where("id = ?", *actor.RestaurantID)
	}
	var list []models.Restaurant
	if err := q.Find(&list).Error; err != nil {
		return nil, UnexpectedError("list restaurants", err)
	}
	return list, nil
}

func (s *RestaurantService) Get(ctx context.Context, actor Actor, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, lookupError(err, "Restaurant")
	}
	if !actor.OwnsRestaurant(r.ID) {
		return nil, ForbiddenError("Access denied")
	}
	return &r, nil
}

// Update lets administrators edit any restaurant and managers their own.
func (s *RestaurantService) Update(ctx context.Context, actor Actor, id uint, in RestaurantInput) (*models.Restaurant, error) {
	if actor.Role == models.RoleStaff {
		return nil, ForbiddenError("Access denied")
	}
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(r); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(r).
		Select("name", "description", "email", "phone", "address", "city", "status").
		Updates(r).Error
	if err != nil {
		return nil, UnexpectedError("update restaurant", err)
	}
	return r, nil
}
