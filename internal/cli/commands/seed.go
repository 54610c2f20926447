package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/threadline-dev/threadline/internal/models"
)

// SeedFile is the YAML document consumed by the seed command
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
}

// SeedProduct is one catalog entry in a seed file
type SeedProduct struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Price         float64  `yaml:"price"`
	Category      string   `yaml:"category"`
	Sizes         []string `yaml:"sizes"`
	Colors        []string `yaml:"colors"`
	Images        []string `yaml:"images"`
	InStock       *bool    `yaml:"in_stock"`
	StockQuantity int      `yaml:"stock_quantity"`
	Featured      bool     `yaml:"featured"`
}

// Validate checks a seed entry before it touches the database
func (p SeedProduct) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("product %q: price must be positive", p.Name)
	}
	if !models.ValidCategory(p.Category) {
		return fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
	}
	for _, size := range p.Sizes {
		if !models.ValidSize(size) {
			return fmt.Errorf("product %q: unknown size %q", p.Name, size)
		}
	}
	return nil
}

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products into the catalog from a YAML file",
		Long: `Load products from a YAML seed file. Entries whose name already exists
in the catalog are skipped, so re-running a seed is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}

			var seed SeedFile
			if err := yaml.Unmarshal(data, &seed); err != nil {
				return fmt.Errorf("failed to parse seed file: %w", err)
			}
			if len(seed.Products) == 0 {
				return fmt.Errorf("seed file contains no products")
			}

			// Validate everything up front so a bad entry cannot leave a
			// half-applied seed
			for _, entry := range seed.Products {
				if err := entry.Validate(); err != nil {
					return err
				}
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}

			created, skipped, err := applySeed(db, seed.Products)
			if err != nil {
				return err
			}

			fmt.Printf("Seed complete: %d created, %d skipped\n", created, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "seed.yaml", "Path to the YAML seed file")

	return cmd
}

func applySeed(db *gorm.DB, entries []SeedProduct) (created, skipped int, err error) {
	for _, entry := range entries {
		var count int64
		if err := db.Model(&models.Product{}).Where("name = ?", entry.Name).Count(&count).Error; err != nil {
			return created, skipped, fmt.Errorf("failed to check for existing product: %w", err)
		}
		if count > 0 {
			skipped++
			continue
		}

		inStock := true
		if entry.InStock != nil {
			inStock = *entry.InStock
		}

		product := &models.Product{
			Name:          entry.Name,
			Description:   entry.Description,
			Price:         entry.Price,
			Category:      entry.Category,
			InStock:       inStock,
			StockQuantity: entry.StockQuantity,
			Featured:      entry.Featured,
		}
		product.SetSizes(entry.Sizes)
		product.SetColors(entry.Colors)
		product.SetImages(entry.Images)

		if err := db.Create(product).Error; err != nil {
			return created, skipped, fmt.Errorf("failed to create product %q: %w", entry.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
