package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	UserID       uint
	Role         string
	RestaurantID *uint
}

func (a Actor) IsPlatformAdmin() bool {
	return a.Role == models.RoleSuperadmin || a.Role == models.RoleAdmin
}

// OwnsRestaurant reports whether the actor may act on restaurant id.
func (a Actor) OwnsRestaurant(id uint) bool {
	return a.IsPlatformAdmin() || (a.RestaurantID != nil && *a.RestaurantID == id)
}

type UserService struct {
	db     *gorm.DB
	tokens *utils.TokenIssuer
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ValidationError("Email and password are required")
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, UnauthorizedError("Invalid email or password")
	}
	if err != nil {
		return nil, UnexpectedError("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, UnauthorizedError("Invalid email or password")
	}

	token, err := s.tokens.GenerateUserToken(user.ID, user.Role, user.RestaurantID)
	if err != nil {
		return nil, UnexpectedError("issue token", err)
	}
	utils.InfoLogger.WithField("user_id", user.ID).Info("user logged in")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Restaurant").First(&user, userID).Error; err != nil {
		return nil, lookupError(err, "User")
	}
	return &user, nil
}

type UserInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Role         string
	RestaurantID *uint
}

// Create adds a staff account. Superadmins create any role, admins create
// managers and staff, managers create staff of their own restaurant.
func (s *UserService) Create(ctx context.Context, actor Actor, in UserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return nil, ValidationError("First name is required")
	case !strings.Contains(in.Email, "@"):
		return nil, ValidationError("A valid email is required")
	case len(in.Password) < 6:
		return nil, ValidationError("Password must be at least 6 characters")
	case !models.ValidRole(in.Role):
		return nil, ValidationError("Invalid role")
	}

	creator := models.User{ID: actor.UserID, Role: actor.Role}
	if !creator.CanCreateRole(in.Role) {
		return nil, ForbiddenError("You are not allowed to create a %s", in.Role)
	}
	if actor.Role == models.RoleManager {
		in.RestaurantID = actor.RestaurantID
	}
	if (in.Role == models.RoleManager || in.Role == models.RoleStaff) && in.RestaurantID == nil {
		return nil, ValidationError("Restaurant is required for %s accounts", in.Role)
	}

	db := s.db.WithContext(ctx)
	if in.RestaurantID != nil {
		var r models.Restaurant
		if err := db.First(&r, *in.RestaurantID).Error; err != nil {
			return nil, lookupError(err, "Restaurant")
		}
	}
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, UnexpectedError("check email", err)
	}
	if count > 0 {
		return nil, ConflictError("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, UnexpectedError("hash password", err)
	}
	user := models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		Password:     string(hashed),
		Role:         in.Role,
		RestaurantID: in.RestaurantID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, UnexpectedError("create user", err)
	}
	utils.InfoLogger.Infof("New user registered: %s (role=%s)", user.Email, user.Role)
	return &user, nil
}

// List returns the users visible to the actor.
func (s *UserService) List(ctx context.Context, actor Actor) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("id")
	if actor.Role != models.RoleSuperadmin {
		if actor.RestaurantID == nil {
			if actor.Role != models.RoleAdmin {
				return []models.User{}, nil
			}
			q = q.Where("role <> ?", models.RoleSuperadmin)
		} else {
			q = q.Where("restaurant_id = ?", *actor.RestaurantID)
		}
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, UnexpectedError("list users", err)
	}
	return users, nil
}
