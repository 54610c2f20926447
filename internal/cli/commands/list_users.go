package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threadline-dev/threadline/internal/models"
)

// NewListUsersCmd creates the list-users command
func NewListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List accounts and their admin status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}

			var users []models.User
			if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if len(users) == 0 {
				fmt.Println("No users found")
				return nil
			}

			for _, user := range users {
				role := "user"
				if user.IsAdmin {
					role = "admin"
				}
				fmt.Printf("%s  %-30s %-6s created %s\n",
					user.ID, user.Email, role, user.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}
