package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/threadline-dev/threadline/internal/auth"
	"github.com/threadline-dev/threadline/internal/models"
)

// NewCreateAdminCmd creates the create-admin command
func NewCreateAdminCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account",
		Long: `Create a new admin account, or promote an existing account to admin.

This is the only place the admin flag is granted. Missing flags are
collected interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}

			if email == "" {
				email, err = promptEmail()
				if err != nil {
					return err
				}
			}
			email = strings.ToLower(strings.TrimSpace(email))

			var existing models.User
			err = db.Where("email = ?", email).First(&existing).Error
			switch {
			case err == nil:
				// Promote the existing account
				if existing.IsAdmin {
					fmt.Printf("Account %s is already an admin\n", existing.Email)
					return nil
				}
				if err := db.Model(&existing).Update("is_admin", true).Error; err != nil {
					return fmt.Errorf("failed to promote user: %w", err)
				}
				fmt.Printf("Promoted existing account %s to admin\n", existing.Email)
				return nil

			case errors.Is(err, gorm.ErrRecordNotFound):
				// Fall through to account creation

			default:
				return fmt.Errorf("failed to look up user: %w", err)
			}

			if name == "" {
				name, err = promptName()
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			passwordHash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user := &models.User{
				Email:        email,
				Name:         name,
				PasswordHash: passwordHash,
				IsAdmin:      true,
			}
			if err := db.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create admin user: %w", err)
			}

			fmt.Printf("Created admin account %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address for the admin account")
	cmd.Flags().StringVar(&name, "name", "", "Display name for the admin account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the admin account (prompted when omitted)")

	return cmd
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if !strings.Contains(input, "@") {
				return fmt.Errorf("invalid email address")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptName() (string, error) {
	prompt := promptui.Prompt{
		Label: "Name",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("name must not be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptPassword() (string, error) {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			return nil
		},
	}
	password, err := prompt.Run()
	if err != nil {
		return "", err
	}

	confirm := promptui.Prompt{
		Label: "Confirm password",
		Mask:  '*',
	}
	confirmed, err := confirm.Run()
	if err != nil {
		return "", err
	}
	if password != confirmed {
		return "", fmt.Errorf("passwords do not match")
	}

	return password, nil
}
