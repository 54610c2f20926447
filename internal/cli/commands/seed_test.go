package commands

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/threadline-dev/threadline/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestSeedProduct_Validate(t *testing.T) {
	valid := SeedProduct{
		Name:     "Linen Shirt",
		Price:    49.90,
		Category: models.CategoryShirts,
		Sizes:    []string{"S", "M"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *SeedProduct)
	}{
		{"empty name", func(p *SeedProduct) { p.Name = "" }},
		{"zero price", func(p *SeedProduct) { p.Price = 0 }},
		{"negative price", func(p *SeedProduct) { p.Price = -1 }},
		{"missing category", func(p *SeedProduct) { p.Category = "" }},
		{"unknown category", func(p *SeedProduct) { p.Category = "HATS" }},
		{"unknown size", func(p *SeedProduct) { p.Sizes = []string{"M", "ENORMOUS"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			tt.mutate(&entry)
			assert.Error(t, entry.Validate())
		})
	}
}

func TestSeedFile_Unmarshal(t *testing.T) {
	doc := `
products:
  - name: Linen Shirt
    description: Breathable summer shirt
    price: 49.90
    category: SHIRTS
    sizes: [S, M, L]
    colors: [White, Sand]
    featured: true
  - name: Canvas Tote
    description: Everyday bag
    price: 25
    category: ACCESSORIES
    in_stock: false
`

	var seed SeedFile
	require.NoError(t, yaml.Unmarshal([]byte(doc), &seed))
	require.Len(t, seed.Products, 2)

	shirt := seed.Products[0]
	assert.Equal(t, "Linen Shirt", shirt.Name)
	assert.Equal(t, 49.90, shirt.Price)
	assert.Equal(t, []string{"S", "M", "L"}, shirt.Sizes)
	assert.True(t, shirt.Featured)
	assert.Nil(t, shirt.InStock, "unset in_stock stays nil so the default applies")

	tote := seed.Products[1]
	require.NotNil(t, tote.InStock)
	assert.False(t, *tote.InStock)
}

func TestApplySeed(t *testing.T) {
	db := newTestDB(t)

	soldOut := false
	entries := []SeedProduct{
		{Name: "Linen Shirt", Description: "d", Price: 49.90, Category: models.CategoryShirts, Sizes: []string{"S", "M"}},
		{Name: "Canvas Tote", Description: "d", Price: 25, Category: models.CategoryAccessories, InStock: &soldOut},
	}

	created, skipped, err := applySeed(db, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var shirt models.Product
	require.NoError(t, db.Where("name = ?", "Linen Shirt").First(&shirt).Error)
	assert.Equal(t, []string{"S", "M"}, shirt.SizeList())
	assert.True(t, shirt.InStock, "in_stock defaults to true")

	// An explicit in_stock: false survives the insert
	var tote models.Product
	require.NoError(t, db.Where("name = ?", "Canvas Tote").First(&tote).Error)
	assert.False(t, tote.InStock)

	// Re-running the same seed skips existing entries
	created, skipped, err = applySeed(db, entries)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, skipped)
}
