package database

import (
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/zhiming817/learn2earn/authz"
	"github.com/zhiming817/learn2earn/models"
)

// RunMigrations auto-migrates the full schema inside a transaction where the
// dialect allows it.
func RunMigrations(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Task{},
		&models.TaskClaim{},
		&models.Submission{},
		&models.Payout{},
		&models.RefreshToken{},
		&models.Setting{},
	); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// SeedDefaults creates the baseline roles, permissions, settings row and the
// bootstrap admin account when they are missing. Idempotent.
func SeedDefaults(db *gorm.DB) error {
	perms := []models.Permission{
		{PermKey: authz.ActionTaskCreate, PermName: "Create tasks"},
		{PermKey: authz.ActionTaskUpdate, PermName: "Update tasks"},
		{PermKey: authz.ActionTaskDelete, PermName: "Delete tasks"},
		{PermKey: authz.ActionSubmissionReview, PermName: "Review submissions"},
		{PermKey: authz.ActionSubmissionSettle, PermName: "Settle approved submissions"},
	}
	for i := range perms {
		if err := db.Where(models.Permission{PermKey: perms[i].PermKey}).
			FirstOrCreate(&perms[i]).Error; err != nil {
			return err
		}
	}

	adminRole := models.Role{RoleKey: authz.RoleAdmin, RoleName: "Administrator"}
	if err := db.Where(models.Role{RoleKey: authz.RoleAdmin}).
		FirstOrCreate(&adminRole).Error; err != nil {
		return err
	}

	reviewerRole := models.Role{RoleKey: "reviewer", RoleName: "Submission reviewer"}
	if err := db.Where(models.Role{RoleKey: "reviewer"}).
		FirstOrCreate(&reviewerRole).Error; err != nil {
		return err
	}
	var reviewPerms []models.Permission
	if err := db.Where("perm_key IN ?", []string{authz.ActionSubmissionReview, authz.ActionSubmissionSettle}).
		Find(&reviewPerms).Error; err != nil {
		return err
	}
	if err := db.Model(&reviewerRole).Association("Permissions").Replace(reviewPerms); err != nil {
		return err
	}

	memberRole := models.Role{RoleKey: "member", RoleName: "Member"}
	if err := db.Where(models.Role{RoleKey: "member"}).
		FirstOrCreate(&memberRole).Error; err != nil {
		return err
	}

	// Settings row is read with raw SQL elsewhere; seed a single row.
	var count int64
	if err := db.Table("settings").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&models.Setting{
			Name:         "default",
			RequireClaim: false,
			MinPayout:    0,
			MaxPayout:    1000,
			Maintenance:  false,
		}).Error; err != nil {
			return err
		}
	}

	// Bootstrap admin only when ADMIN_BOOTSTRAP_PASSWORD is set.
	bootPass := os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")
	if bootPass == "" {
		return nil
	}
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	admin := models.User{Username: "admin", Password: bootPass, Status: "Active"}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	admin.Roles = []models.Role{adminRole}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("[database] bootstrap admin account created")
	return nil
}
