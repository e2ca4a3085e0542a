package service

import (
	"errors"
	"fmt"

	"taskman/todo-web/model"
	"taskman/todo-web/pkg/security"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// SeedAdmin resets the bootstrap administrator account from config. The
// existing row with the configured name is dropped and re-inserted as a
// verified admin. A password must be configured explicitly, there is no
// default to fall back to.
func SeedAdmin(db *gorm.DB, argon *security.ArgonHash) error {
	name := viper.GetString("admin.name")
	password := viper.GetString("admin.password")

	if password == "" {
		return errors.New("admin.password must be set to seed the admin account")
	}

	hash, err := argon.GenerateFromPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password, %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing model.User

		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			// An admin may have tasks of their own, those reference the
			// user row and have to be deleted before it
			if err := tx.Where("user_id = ?", existing.ID).Delete(&model.Task{}).Error; err != nil {
				return err
			}

			if err := tx.Delete(&model.User{}, existing.ID).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Create(&model.User{
			Name:         name,
			Email:        viper.GetString("admin.email"),
			PasswordHash: hash,
			Verified:     true,
			Admin:        true,
		}).Error
	})
}
