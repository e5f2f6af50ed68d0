package store

import (
	"context"
	"fmt"

	"github.com/shopfront-demo/shopfront/internal/hash"
	"github.com/shopfront-demo/shopfront/internal/models"
)

// Seed loads the demo catalog and the two stock accounts. It runs once on
// startup and is idempotent: a non-empty product table is left alone.
func (s *Store) Seed(ctx context.Context) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "UltraBook Pro 14", Category: "Laptops", Price: 1299.99, Description: "Thin and light laptop with a 14-inch display", Stock: 25, Rating: 4.7, Featured: true},
		{Name: "Gamer X17 Laptop", Category: "Laptops", Price: 1899.00, Description: "17-inch gaming laptop with discrete graphics", Stock: 10, Rating: 4.5},
		{Name: "Budget Laptop 15", Category: "Laptops", Price: 499.50, Description: "Everyday 15-inch laptop for browsing and office work", Stock: 40, Rating: 3.9},
		{Name: "Mechanical Keyboard", Category: "Accessories", Price: 89.99, Description: "Hot-swappable mechanical keyboard, great with any laptop", Stock: 120, Rating: 4.6},
		{Name: "Wireless Mouse", Category: "Accessories", Price: 29.99, Description: "Silent wireless mouse", Stock: 200, Rating: 4.2},
		{Name: "4K Monitor 27", Category: "Monitors", Price: 349.00, Description: "27-inch 4K IPS monitor", Stock: 35, Rating: 4.4, Featured: true},
		{Name: "USB-C Dock", Category: "Accessories", Price: 149.00, Description: "11-in-1 USB-C docking station", Stock: 60, Rating: 4.0},
		{Name: "Noise Cancelling Headphones", Category: "Audio", Price: 249.99, Description: "Over-ear headphones with active noise cancelling", Stock: 45, Rating: 4.8, Featured: true},
		{Name: "Portable SSD 1TB", Category: "Storage", Price: 119.99, Description: "Pocket-size 1TB NVMe drive", Stock: 80, Rating: 4.5},
		{Name: "Webcam 1080p", Category: "Accessories", Price: 59.99, Description: "Full HD webcam with privacy shutter", Stock: 150, Rating: 3.8},
	}
	for i := range products {
		products[i].Slug = fmt.Sprintf("product%d", i+1)
		if err := s.DB.WithContext(ctx).Create(&products[i]).Error; err != nil {
			return err
		}
	}

	adminHash, err := hash.HashPassword("admin123")
	if err != nil {
		return err
	}
	customerHash, err := hash.HashPassword("customer123")
	if err != nil {
		return err
	}
	users := []models.User{
		{FirstName: "Ada", LastName: "Admin", Email: "admin@shopfront.dev", PasswordHash: adminHash, Role: models.RoleAdmin},
		{FirstName: "Carl", LastName: "Customer", Email: "customer@shopfront.dev", PasswordHash: customerHash, Role: models.RoleCustomer},
	}
	for i := range users {
		if err := s.DB.WithContext(ctx).Create(&users[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
