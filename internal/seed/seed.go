// Package seed bootstraps the first admin profile so a fresh install can
// log in before any other account exists.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/config"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
)

// EnsureAdmin creates the bootstrap admin when no profile with the
// configured email exists. It never overwrites an existing account.
func EnsureAdmin(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		return errors.New("bootstrap admin email is required")
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return errors.New("bootstrap admin password is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing profiledomain.Profile
		err := tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := profiledomain.Profile{
			ID:           node.Generate(),
			Email:        email,
			Name:         "Vendora Admin",
			PasswordHash: string(hash),
			Role:         profiledomain.RoleAdmin,
			AccountType:  profiledomain.AccountTypeAdmin,
			Permissions: datatypes.NewJSONType(profiledomain.Permissions{
				CanEdit: true,
				CanView: true,
			}),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.WithContext(ctx).Create(&admin).Error
	})
}
