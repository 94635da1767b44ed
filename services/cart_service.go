package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/models"
	"gorm.io/gorm"
)

// AddonChoice selects one sub-addon of an addon group by name.
type AddonChoice struct {
	AddonID      uint   `json:"addonId"`
	SubAddonName string `json:"subAddonName"`
}

type AddCartItem struct {
	ProductID           uint
	Quantity            int
	Addons              []AddonChoice
	SpecialInstructions *string
}

type UpdateCartItem struct {
	Quantity            *int
	Addons              []AddonChoice
	SpecialInstructions *string
}

// CartView is what customers see: the cart and its computed total.
type CartView struct {
	Cart        *models.Cart      `json:"cart"`
	Items       []models.CartItem `json:"items"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
}

type CartService struct {
	db       *gorm.DB
	sessions *SessionService
	now      func() time.Time
}

// loadCart returns the customer's cart with products, or nil when there is none.
func loadCart(tx *gorm.DB, customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, UnexpectedError("load cart", err)
	}
	return &cart, nil
}

// GetCart never fails for a missing cart; it returns an empty view instead.
func (s *CartService) GetCart(ctx context.Context, customerID uint) (*CartView, error) {
	cart, err := loadCart(s.db.WithContext(ctx), customerID)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func viewOf(cart *models.Cart) *CartView {
	if cart == nil {
		return &CartView{Items: []models.CartItem{}, TotalAmount: decimal.Zero}
	}
	return &CartView{Cart: cart, Items: cart.Items, TotalAmount: cart.Total()}
}

// resolveAddons freezes the selected sub-addons of a product.
func resolveAddons(tx *gorm.DB, product models.Product, choices []AddonChoice) ([]models.SelectedAddon, error) {
	if len(choices) == 0 {
		return []models.SelectedAddon{}, nil
	}
	var addons []models.Addon
	err := tx.Preload("SubAddons").
		Joins("JOIN product_addons ON product_addons.addon_id = addons.id").
		Where("product_addons.product_id = ?", product.ID).
		Find(&addons).Error
	if err != nil {
		return nil, UnexpectedError("load product addons", err)
	}
	byID := make(map[uint]models.Addon, len(addons))
	for _, a := range addons {
		byID[a.ID] = a
	}

	picked := map[uint]int{}
	selected := make([]models.SelectedAddon, 0, len(choices))
	for _, choice := range choices {
		addon, ok := byID[choice.AddonID]
		if !ok {
			return nil, ValidationError("addon %d is not offered for %s", choice.AddonID, product.Name)
		}
		sub, ok := addon.FindSubAddon(choice.SubAddonName)
		if !ok {
			return nil, ValidationError("addon %s has no option %q", addon.Name, choice.SubAddonName)
		}
		picked[addon.ID]++
		if picked[addon.ID] > 1 && !addon.IsMultiSelect {
			return nil, ValidationError("addon %s allows a single choice", addon.Name)
		}
		selected = append(selected, models.SelectedAddon{
			AddonID:   addon.ID,
			AddonName: addon.Name,
			SubAddon:  models.SubAddonSnapshot{Name: sub.Name, Price: sub.Price},
		})
	}
	return selected, nil
}

// AddItem adds a product to the cart of the customer's active session. A
// product already in the cart has its quantity increased; supplied add-ons
// and instructions replace the previous ones.
func (s *CartService) AddItem(ctx context.Context, customerID uint, in AddCartItem) (*CartView, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, ValidationError("quantity must be at least 1")
	}
	customer, err := s.sessions.ActiveSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sess := customer.CurrentSession

	var cart *models.Cart
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Where("id = ? AND restaurant_id = ?", in.ProductID, *sess.RestaurantID).First(&product).Error
		if err != nil {
			return lookupError(err, "Product")
		}
		if !product.IsAvailable {
			return PreconditionError("%s is not available", product.Name)
		}

		if cart, err = loadCart(tx, customerID); err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{CustomerID: customerID, RestaurantID: *sess.RestaurantID, TableID: sess.TableID}
			if err := tx.Create(cart).Error; err != nil {
				return UnexpectedError("create cart", err)
			}
		} else if cart.RestaurantID != *sess.RestaurantID || !sameTable(cart.TableID, sess.TableID) {
			// New session somewhere else, start over.
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return UnexpectedError("reset cart", err)
			}
			cart.Items = nil
			cart.RestaurantID = *sess.RestaurantID
			cart.TableID = sess.TableID
		}

		var existing *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				existing = &cart.Items[i]
				break
			}
		}

		if existing != nil {
			existing.Quantity += in.Quantity
			if in.Addons != nil {
				if existing.SelectedAddons, err = resolveAddons(tx, product, in.Addons); err != nil {
					return err
				}
			}
			if in.SpecialInstructions != nil {
				existing.SpecialInstructions = *in.SpecialInstructions
			}
			err := tx.Model(existing).Select("quantity", "selected_addons", "special_instructions").Updates(existing).Error
			if err != nil {
				return UnexpectedError("update cart item", err)
			}
		} else {
			addons, err := resolveAddons(tx, product, in.Addons)
			if err != nil {
				return err
			}
			item := models.CartItem{
				CartID:         cart.ID,
				ProductID:      product.ID,
				Quantity:       in.Quantity,
				SelectedAddons: addons,
			}
			if in.SpecialInstructions != nil {
				item.SpecialInstructions = *in.SpecialInstructions
			}
			if err := tx.Omit("Product").Create(&item).Error; err != nil {
				return UnexpectedError("add cart item", err)
			}
		}
		return s.touch(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, customerID)
}

// UpdateItem merges the supplied fields into a cart line. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, customerID, itemID uint, in UpdateCartItem) (*CartView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, item, err := findCartItem(tx, customerID, itemID)
		if err != nil {
			return err
		}
		if in.Quantity != nil && *in.Quantity <= 0 {
			if err := tx.Delete(item).Error; err != nil {
				return UnexpectedError("remove cart item", err)
			}
			return s.touch(tx, cart)
		}

		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.Addons != nil {
			if item.SelectedAddons, err = resolveAddons(tx, item.Product, in.Addons); err != nil {
				return err
			}
		}
		if in.SpecialInstructions != nil {
			item.SpecialInstructions = *in.SpecialInstructions
		}
		err = tx.Model(item).Select("quantity", "selected_addons", "special_instructions").Updates(item).Error
		if err != nil {
			return UnexpectedError("update cart item", err)
		}
		return s.touch(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, customerID)
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, item, err := findCartItem(tx, customerID, itemID)
		if err != nil {
			return err
		}
		if err := tx.Delete(item).Error; err != nil {
			return UnexpectedError("remove cart item", err)
		}
		return s.touch(tx, cart)
	})
}

// Clear empties the cart. A missing cart is not an error.
func (s *CartService) Clear(ctx context.Context, customerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := loadCart(tx, customerID)
		if err != nil || cart == nil {
			return err
		}
		return drainCart(tx, cart, s.now())
	})
}

func drainCart(tx *gorm.DB, cart *models.Cart, now time.Time) error {
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return UnexpectedError("clear cart", err)
	}
	err := tx.Model(&models.Cart{ID: cart.ID}).Update("last_updated", now).Error
	return dbError(err, "clear cart")
}

func (s *CartService) touch(tx *gorm.DB, cart *models.Cart) error {
	err := tx.Model(&models.Cart{ID: cart.ID}).Updates(map[string]interface{}{
		"restaurant_id": cart.RestaurantID,
		"table_id":      cart.TableID,
		"last_updated":  s.now(),
	}).Error
	return dbError(err, "update cart")
}

func findCartItem(tx *gorm.DB, customerID, itemID uint) (*models.Cart, *models.CartItem, error) {
	cart, err := loadCart(tx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, NotFoundError("Cart not found")
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return cart, &cart.Items[i], nil
		}
	}
	return nil, nil, NotFoundError("Item not found in cart")
}

func sameTable(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
