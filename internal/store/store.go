package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shopfront-demo/shopfront/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already exists")
)

// Store owns the users/products/carts collections. Handlers never touch
// the DB directly; they get a Store injected. The mutex serializes
// read-modify-write sequences (duplicate-email check, cart quantity
// accumulation) that concurrent requests would otherwise race on.
type Store struct {
	DB *gorm.DB

	mu sync.Mutex
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.DB.WithContext(ctx).Create(user).Error
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Products returns the full collection. Query results are never cached;
// every listing recomputes from here.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ProductByRef resolves either id form: the legacy slug alias first, then
// the canonical numeric id.
func (s *Store) ProductByRef(ctx context.Context, ref string) (*models.Product, error) {
	var product models.Product
	err := s.DB.WithContext(ctx).Where("slug = ?", ref).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, convErr := strconv.ParseUint(ref, 10, 64)
	if convErr != nil {
		return nil, ErrNotFound
	}
	if err := s.DB.WithContext(ctx).First(&product, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.DB.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	// A product created without a legacy alias gets the canonical
	// "product<id>" form so either lookup key always works.
	if product.Slug == "" {
		product.Slug = fmt.Sprintf("product%d", product.ID)
		return s.DB.WithContext(ctx).Save(product).Error
	}
	return nil
}

// ProductPatch lists the fields an update may carry. Absent fields stay
// untouched; unknown keys in the request body are dropped at bind time
// instead of being merged in blindly.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	Rating      *float64 `json:"rating"`
	Featured    *bool    `json:"featured"`
}

func (s *Store) PatchProduct(ctx context.Context, ref string, patch ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.ProductByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Rating != nil {
		product.Rating = *patch.Rating
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}

	if err := s.DB.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.ProductByRef(ctx, ref)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, product.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CartItems returns the user's cart in insertion order. A user without a
// cart gets an empty one, never an error.
func (s *Store) CartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem accumulates: a repeated product id bumps the existing line
// instead of adding a second one.
func (s *Store) AddCartItem(ctx context.Context, userID, productID, quantity uint) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var item models.CartItem
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err == nil {
		item.Quantity += quantity
		return s.DB.WithContext(ctx).Save(&item).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	item = models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	}
	return s.DB.WithContext(ctx).Create(&item).Error
}

// SetCartItemQuantity replaces a line's quantity; zero or less removes
// the line entirely.
func (s *Store) SetCartItemQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var item models.CartItem
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if quantity <= 0 {
		return s.DB.WithContext(ctx).Delete(&item).Error
	}
	item.Quantity = uint(quantity)
	return s.DB.WithContext(ctx).Save(&item).Error
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
