package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/threadline-dev/threadline/internal/models"
)

// legacyCategoryMappings rewrites category values from imports that predate
// the uppercase enum
var legacyCategoryMappings = map[string]string{
	"shirts":      models.CategoryShirts,
	"pants":       models.CategoryPants,
	"dresses":     models.CategoryDresses,
	"jackets":     models.CategoryJackets,
	"shoes":       models.CategoryShoes,
	"accessories": models.CategoryAccessories,
}

// NewMigrateCategoriesCmd creates the migrate-categories command
func NewMigrateCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-categories",
		Short: "Rewrite legacy product category values to the canonical enum",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}

			var categories []string
			if err := db.Model(&models.Product{}).Distinct("category").Pluck("category", &categories).Error; err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}
			fmt.Printf("Existing categories: %s\n", strings.Join(categories, ", "))

			total := int64(0)
			for legacy, canonical := range legacyCategoryMappings {
				result := db.Model(&models.Product{}).
					Where("category = ?", legacy).
					Update("category", canonical)
				if result.Error != nil {
					return fmt.Errorf("failed to migrate category %q: %w", legacy, result.Error)
				}
				if result.RowsAffected > 0 {
					fmt.Printf("Updated %d products: %q -> %q\n", result.RowsAffected, legacy, canonical)
					total += result.RowsAffected
				}
			}

			// Anything still outside the enum needs manual attention
			var unknown []string
			for _, category := range categories {
				if !models.ValidCategory(category) && legacyCategoryMappings[category] == "" {
					unknown = append(unknown, category)
				}
			}
			if len(unknown) > 0 {
				fmt.Printf("Warning: unrecognized categories left untouched: %s\n", strings.Join(unknown, ", "))
			}

			fmt.Printf("Category migration complete: %d products updated\n", total)
			return nil
		},
	}
}
