package models

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents an account in the credential store. The password hash is
// never serialized; the admin flag is the sole authorization signal.
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Name         string `json:"name" gorm:"not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"not null;default:false"`
}

// Product categories. Stored as the uppercase enum value.
const (
	CategoryShirts      = "SHIRTS"
	CategoryPants       = "PANTS"
	CategoryDresses     = "DRESSES"
	CategoryJackets     = "JACKETS"
	CategoryShoes       = "SHOES"
	CategoryAccessories = "ACCESSORIES"
)

// Categories lists all valid product categories
var Categories = []string{
	CategoryShirts,
	CategoryPants,
	CategoryDresses,
	CategoryJackets,
	CategoryShoes,
	CategoryAccessories,
}

// ValidCategory reports whether c is a known product category
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product sizes
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// ValidSize reports whether s is a known product size
func ValidSize(s string) bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// Product represents a catalog item. Sizes, colors and image URLs are stored
// as JSON-encoded text columns (sqlite has no array type).
type Product struct {
	BaseModel
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text;not null"`
	Price         float64   `json:"price" gorm:"not null"`
	Category      string    `json:"category" gorm:"not null;index"`
	Sizes         string    `json:"-" gorm:"type:text;not null;default:'[]'"`
	Colors        string    `json:"-" gorm:"type:text;not null;default:'[]'"`
	Images        string    `json:"-" gorm:"type:text;not null;default:'[]'"`
	// No column default here: gorm would skip a zero-valued field on INSERT
	// and the default would overwrite an explicit false. Callers that want
	// "in stock unless stated otherwise" apply that default themselves.
	InStock       bool      `json:"in_stock" gorm:"not null;index"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null;default:0"`
	Featured      bool      `json:"featured" gorm:"not null;default:false;index"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SizeList decodes the JSON sizes column
func (p *Product) SizeList() []string {
	return decodeStringList(p.Sizes)
}

// ColorList decodes the JSON colors column
func (p *Product) ColorList() []string {
	return decodeStringList(p.Colors)
}

// ImageList decodes the JSON images column
func (p *Product) ImageList() []string {
	return decodeStringList(p.Images)
}

// SetSizes encodes sizes into the JSON column
func (p *Product) SetSizes(sizes []string) {
	p.Sizes = encodeStringList(sizes)
}

// SetColors encodes colors into the JSON column
func (p *Product) SetColors(colors []string) {
	p.Colors = encodeStringList(colors)
}

// SetImages encodes image URLs into the JSON column
func (p *Product) SetImages(images []string) {
	p.Images = encodeStringList(images)
}

func encodeStringList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{}
	}
	return values
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Product{},
	)
}
