// Package main runs schema migrations and seeds the initial admin
// account when ADMIN_USERNAME and ADMIN_PASSWORD are set.
package main

import (
	"errors"
	"os"

	"campuspay/internal/config"
	"campuspay/internal/models"
	"campuspay/internal/repositories"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	db, err := gorm.Open(postgres.Open(repositories.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := repositories.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
	logrus.Info("schema migrated")

	if err := seedAdmin(db); err != nil {
		logrus.WithError(err).Fatal("admin seed failed")
	}
}

func seedAdmin(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		logrus.Info("ADMIN_USERNAME or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.Account
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		logrus.WithField("username", username).Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Account{
		Username: username,
		Email:    config.GetEnv("ADMIN_EMAIL", username+"@campuspay.local"),
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("username", username).Info("admin account created")
	return nil
}
