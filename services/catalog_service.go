package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

type CatalogService struct {
	db       *gorm.DB
	sessions *SessionService
}

type CategoryInput struct {
	Name      *string
	SortOrder *int
}

func (s *CatalogService) CreateCategory(ctx context.Context, restaurantID uint, in CategoryInput) (*models.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ValidationError("Category name is required")
	}
	c := models.Category{RestaurantID: restaurantID, Name: strings.TrimSpace(*in.Name)}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, UnexpectedError("create category", err)
	}
	return &c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, restaurantID uint) ([]models.Category, error) {
	var list []models.Category
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("sort_order, id").
		Find(&list).Error
	if err != nil {
		return nil, UnexpectedError("list categories", err)
	}
	return list, nil
}

func (s *CatalogService) category(db *gorm.DB, restaurantID, id uint) (*models.Category, error) {
	var c models.Category
	if err := db.Where("restaurant_id = ?", restaurantID).First(&c, id).Error; err != nil {
		return nil, lookupError(err, "Category")
	}
	return &c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, restaurantID, id uint, in CategoryInput) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	c, err := s.category(db, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, ValidationError("Category name is required")
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if err := db.Model(c).Select("name", "sort_order").Updates(c).Error; err != nil {
		return nil, UnexpectedError("update category", err)
	}
	return c, nil
}

// DeleteCategory detaches the category's products before removing it.
func (s *CatalogService) DeleteCategory(ctx context.Context, restaurantID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.category(tx, restaurantID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("category_id = ?", c.ID).
			Update("category_id", nil).Error; err != nil {
			return dbError(err, "detach products")
		}
		if err := tx.Delete(c).Error; err != nil {
			return dbError(err, "delete category")
		}
		return nil
	})
}

type ProductInput struct {
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	IsAvailable *bool
	AddonIDs    []uint
	TagIDs      []uint
}

func (s *CatalogService) loadProduct(db *gorm.DB, restaurantID, id uint) (*models.Product, error) {
	var p models.Product
	err := db.Preload("Category").
		Preload("Addons.SubAddons").
		Preload("Tags").
		Where("restaurant_id = ?", restaurantID).
		First(&p, id).Error
	if err != nil {
		return nil, lookupError(err, "Product")
	}
	return &p, nil
}

// addons loads the restaurant's addons with the given ids and fails when
// any of them is missing.
func (s *CatalogService) addons(tx *gorm.DB, restaurantID uint, ids []uint) ([]models.Addon, error) {
	if len(ids) == 0 {
		return []models.Addon{}, nil
	}
	var list []models.Addon
	if err := tx.Where("restaurant_id = ? AND id IN ?", restaurantID, ids).Find(&list).Error; err != nil {
		return nil, UnexpectedError("load addons", err)
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	if len(list) != len(seen) {
		return nil, NotFoundError("Addon not found")
	}
	return list, nil
}

// tags loads the restaurant's tags with the given ids and fails when any
// of them is missing.
func (s *CatalogService) tags(tx *gorm.DB, restaurantID uint, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var list []models.Tag
	if err := tx.Where("restaurant_id = ? AND id IN ?", restaurantID, ids).Find(&list).Error; err != nil {
		return nil, UnexpectedError("load tags", err)
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	if len(list) != len(seen) {
		return nil, NotFoundError("Tag not found")
	}
	return list, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, restaurantID uint, in ProductInput) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ValidationError("Product name is required")
	}
	if in.Price == nil || in.Price.IsNegative() {
		return nil, ValidationError("Price must be zero or more")
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			if _, err := s.category(tx, restaurantID, *in.CategoryID); err != nil {
				return err
			}
		}
		addons, err := s.addons(tx, restaurantID, in.AddonIDs)
		if err != nil {
			return err
		}
		tags, err := s.tags(tx, restaurantID, in.TagIDs)
		if err != nil {
			return err
		}
		p := models.Product{
			RestaurantID: restaurantID,
			CategoryID:   in.CategoryID,
			Name:         strings.TrimSpace(*in.Name),
			Price:        *in.Price,
			IsAvailable:  true,
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.IsAvailable != nil {
			p.IsAvailable = *in.IsAvailable
		}
		if err := tx.Omit("Addons", "Tags").Create(&p).Error; err != nil {
			return dbError(err, "create product")
		}
		if len(addons) > 0 {
			if err := tx.Model(&p).Omit("Addons.*").Association("Addons").Append(addons); err != nil {
				return dbError(err, "link addons")
			}
		}
		if len(tags) > 0 {
			if err := tx.Model(&p).Omit("Tags.*").Association("Tags").Append(tags); err != nil {
				return dbError(err, "link tags")
			}
		}
		id = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithField("product_id", id).Info("product created")
	return s.loadProduct(s.db.WithContext(ctx), restaurantID, id)
}

// ProductFilter narrows ListProducts. Zero fields do not filter.
type ProductFilter struct {
	CategoryID *uint
	TagID      *uint
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ListProducts returns the restaurant's products matching every set field of
// the filter, sorted by name. Search matches the name case-insensitively.
func (s *CatalogService) ListProducts(ctx context.Context, restaurantID uint, filter ProductFilter) ([]models.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MaxPrice.LessThan(*filter.MinPrice) {
		return nil, ValidationError("maxPrice must not be below minPrice")
	}
	q := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Addons.SubAddons").
		Preload("Tags").
		Where("products.restaurant_id = ?", restaurantID)
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.TagID != nil {
		q = q.Where("products.id IN (?)",
			s.db.Table("product_tags").Select("product_id").Where("tag_id = ?", *filter.TagID))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}
	var list []models.Product
	if err := q.Order("name").Find(&list).Error; err != nil {
		return nil, UnexpectedError("list products", err)
	}
	return list, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, restaurantID, id uint) (*models.Product, error) {
	return s.loadProduct(s.db.WithContext(ctx), restaurantID, id)
}

// UpdateProduct edits the product. A non-nil AddonIDs or TagIDs replaces the
// linked addons or tags.
func (s *CatalogService) UpdateProduct(ctx context.Context, restaurantID, id uint, in ProductInput) (*models.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.loadProduct(tx, restaurantID, id)
		if err != nil {
			return err
		}
		if in.CategoryID != nil {
			if _, err := s.category(tx, restaurantID, *in.CategoryID); err != nil {
				return err
			}
			p.CategoryID = in.CategoryID
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return ValidationError("Product name is required")
			}
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return ValidationError("Price must be zero or more")
			}
			p.Price = *in.Price
		}
		if in.IsAvailable != nil {
			p.IsAvailable = *in.IsAvailable
		}
		err = tx.Model(&models.Product{ID: p.ID}).
			Select("category_id", "name", "description", "price", "is_available").
			Updates(map[string]interface{}{
				"category_id":  p.CategoryID,
				"name":         p.Name,
				"description":  p.Description,
				"price":        p.Price,
				"is_available": p.IsAvailable,
			}).Error
		if err != nil {
			return dbError(err, "update product")
		}
		if in.AddonIDs != nil {
			addons, err := s.addons(tx, restaurantID, in.AddonIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Product{ID: p.ID}).Omit("Addons.*").Association("Addons").Replace(addons); err != nil {
				return dbError(err, "link addons")
			}
		}
		if in.TagIDs != nil {
			tags, err := s.tags(tx, restaurantID, in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Product{ID: p.ID}).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
				return dbError(err, "link tags")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadProduct(s.db.WithContext(ctx), restaurantID, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, restaurantID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.loadProduct(tx, restaurantID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(p).Association("Addons").Clear(); err != nil {
			return dbError(err, "unlink addons")
		}
		if err := tx.Model(p).Association("Tags").Clear(); err != nil {
			return dbError(err, "unlink tags")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.CartItem{}).Error; err != nil {
			return dbError(err, "remove cart lines")
		}
		if err := tx.Delete(&models.Product{ID: p.ID}).Error; err != nil {
			return dbError(err, "delete product")
		}
		return nil
	})
}

type SubAddonInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddonInput struct {
	Name          *string
	IsMultiSelect *bool
	SubAddons     []SubAddonInput
}

func validSubAddons(in []SubAddonInput) ([]models.SubAddon, error) {
	out := make([]models.SubAddon, 0, len(in))
	seen := map[string]bool{}
	for _, sa := range in {
		name := strings.TrimSpace(sa.Name)
		if name == "" {
			return nil, ValidationError("Sub-addon name is required")
		}
		if seen[name] {
			return nil, ValidationError("Duplicate sub-addon %q", name)
		}
		if sa.Price.IsNegative() {
			return nil, ValidationError("Sub-addon price must be zero or more")
		}
		seen[name] = true
		out = append(out, models.SubAddon{Name: name, Price: sa.Price})
	}
	return out, nil
}

func (s *CatalogService) CreateAddon(ctx context.Context, restaurantID, staffID uint, in AddonInput) (*models.Addon, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ValidationError("Addon name is required")
	}
	subs, err := validSubAddons(in.SubAddons)
	if err != nil {
		return nil, err
	}
	a := models.Addon{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(*in.Name),
		SubAddons:    subs,
		CreatedByID:  &staffID,
	}
	if in.IsMultiSelect != nil {
		a.IsMultiSelect = *in.IsMultiSelect
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, UnexpectedError("create addon", err)
	}
	return &a, nil
}

func (s *CatalogService) ListAddons(ctx context.Context, restaurantID uint) ([]models.Addon, error) {
	var list []models.Addon
	err := s.db.WithContext(ctx).Preload("SubAddons").
		Where("restaurant_id = ?", restaurantID).
		Order("name").Find(&list).Error
	if err != nil {
		return nil, UnexpectedError("list addons", err)
	}
	return list, nil
}

func (s *CatalogService) loadAddon(db *gorm.DB, restaurantID, id uint) (*models.Addon, error) {
	var a models.Addon
	if err := db.Preload("SubAddons").Where("restaurant_id = ?", restaurantID).First(&a, id).Error; err != nil {
		return nil, lookupError(err, "Addon")
	}
	return &a, nil
}

// UpdateAddon edits the group. A non-nil SubAddons replaces every value.
// Cart lines and order items keep their frozen copies.
func (s *CatalogService) UpdateAddon(ctx context.Context, restaurantID, id uint, in AddonInput) (*models.Addon, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.loadAddon(tx, restaurantID, id)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return ValidationError("Addon name is required")
			}
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.IsMultiSelect != nil {
			updates["is_multi_select"] = *in.IsMultiSelect
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Addon{ID: a.ID}).Updates(updates).Error; err != nil {
				return dbError(err, "update addon")
			}
		}
		if in.SubAddons != nil {
			subs, err := validSubAddons(in.SubAddons)
			if err != nil {
				return err
			}
			if err := tx.Where("addon_id = ?", a.ID).Delete(&models.SubAddon{}).Error; err != nil {
				return dbError(err, "replace sub-addons")
			}
			for i := range subs {
				subs[i].AddonID = a.ID
			}
			if len(subs) > 0 {
				if err := tx.Create(&subs).Error; err != nil {
					return dbError(err, "replace sub-addons")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadAddon(s.db.WithContext(ctx), restaurantID, id)
}

func (s *CatalogService) DeleteAddon(ctx context.Context, restaurantID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.loadAddon(tx, restaurantID, id)
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM product_addons WHERE addon_id = ?", a.ID).Error; err != nil {
			return dbError(err, "unlink products")
		}
		if err := tx.Where("addon_id = ?", a.ID).Delete(&models.SubAddon{}).Error; err != nil {
			return dbError(err, "delete sub-addons")
		}
		if err := tx.Delete(&models.Addon{ID: a.ID}).Error; err != nil {
			return dbError(err, "delete addon")
		}
		return nil
	})
}

type TagInput struct {
	Name *string
}

func (s *CatalogService) loadTag(db *gorm.DB, restaurantID, id uint) (*models.Tag, error) {
	var t models.Tag
	if err := db.Where("restaurant_id = ?", restaurantID).First(&t, id).Error; err != nil {
		return nil, lookupError(err, "Tag")
	}
	return &t, nil
}

// tagName validates the name and rejects one already used by another tag of
// the restaurant, ignoring case.
func (s *CatalogService) tagName(db *gorm.DB, restaurantID, selfID uint, name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", ValidationError("Tag name is required")
	}
	clean := strings.TrimSpace(*name)
	var n int64
	err := db.Model(&models.Tag{}).
		Where("restaurant_id = ? AND LOWER(name) = ? AND id <> ?", restaurantID, strings.ToLower(clean), selfID).
		Count(&n).Error
	if err != nil {
		return "", UnexpectedError("check tag name", err)
	}
	if n > 0 {
		return "", ConflictError("Tag %q already exists", clean)
	}
	return clean, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, restaurantID, staffID uint, in TagInput) (*models.Tag, error) {
	var t models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		name, err := s.tagName(tx, restaurantID, 0, in.Name)
		if err != nil {
			return err
		}
		t = models.Tag{RestaurantID: restaurantID, Name: name, CreatedByID: &staffID}
		if err := tx.Create(&t).Error; err != nil {
			return dbError(err, "create tag")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *CatalogService) ListTags(ctx context.Context, restaurantID uint) ([]models.Tag, error) {
	var list []models.Tag
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name").Find(&list).Error
	if err != nil {
		return nil, UnexpectedError("list tags", err)
	}
	return list, nil
}

func (s *CatalogService) UpdateTag(ctx context.Context, restaurantID, id uint, in TagInput) (*models.Tag, error) {
	var t *models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = s.loadTag(tx, restaurantID, id); err != nil {
			return err
		}
		name, err := s.tagName(tx, restaurantID, t.ID, in.Name)
		if err != nil {
			return err
		}
		t.Name = name
		if err := tx.Model(t).Update("name", name).Error; err != nil {
			return dbError(err, "update tag")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTag refuses while any product still carries the tag.
func (s *CatalogService) DeleteTag(ctx context.Context, restaurantID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.loadTag(tx, restaurantID, id)
		if err != nil {
			return err
		}
		var used int64
		if err := tx.Table("product_tags").Where("tag_id = ?", t.ID).Count(&used).Error; err != nil {
			return dbError(err, "count tagged products")
		}
		if used > 0 {
			return PreconditionError("Cannot delete tag. It is used by %d products", used)
		}
		if err := tx.Delete(&models.Tag{ID: t.ID}).Error; err != nil {
			return dbError(err, "delete tag")
		}
		return nil
	})
}

// MenuSection groups the available products of one category.
type MenuSection struct {
	Category *models.Category `json:"category"`
	Products []models.Product `json:"products"`
}

// Menu lists the available products of a restaurant grouped by category.
// Products without a category come last in a section with a nil category.
func (s *CatalogService) Menu(ctx context.Context, restaurantID uint) ([]MenuSection, error) {
	categories, err := s.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	err = s.db.WithContext(ctx).
		Preload("Addons.SubAddons").
		Preload("Tags").
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("name").Find(&products).Error
	if err != nil {
		return nil, UnexpectedError("load menu", err)
	}

	byCategory := make(map[uint][]models.Product)
	var loose []models.Product
	for _, p := range products {
		if p.CategoryID == nil {
			loose = append(loose, p)
			continue
		}
		byCategory[*p.CategoryID] = append(byCategory[*p.CategoryID], p)
	}

	sections := make([]MenuSection, 0, len(categories)+1)
	for i := range categories {
		items := byCategory[categories[i].ID]
		if len(items) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Category: &categories[i], Products: items})
	}
	if len(loose) > 0 {
		sections = append(sections, MenuSection{Products: loose})
	}
	return sections, nil
}

// CustomerMenu is the menu of the restaurant the customer is seated at.
func (s *CatalogService) CustomerMenu(ctx context.Context, customerID uint) ([]MenuSection, error) {
	customer, err := s.sessions.ActiveSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.Menu(ctx, *customer.CurrentSession.RestaurantID)
}
