package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	FirstName    string `gorm:"not null"                  json:"firstName"`
	LastName     string `gorm:"not null"                  json:"lastName"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

// Product carries one canonical numeric ID. Slug is the legacy string
// alias ("product2") that older clients still send as a lookup key.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string  `gorm:"uniqueIndex;not null"     json:"slug"`
	Name        string  `gorm:"not null"                 json:"name"`
	Category    string  `gorm:"index;not null"           json:"category"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	Featured    bool    `json:"featured"`
}

// CartItem quantity is never stored as zero or negative; an update that
// would drop it to zero deletes the row instead.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	ProductID uint      `gorm:"not null"                 json:"productId"`
	Quantity  uint      `gorm:"not null"                 json:"quantity"`
	AddedAt   time.Time `gorm:"not null"                 json:"addedAt"`
}
