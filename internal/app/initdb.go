package app

import (
	"fmt"
	"time"

	"github.com/zencartio/zencart/config"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())
	loglevel := logger.Silent
	if cfg.Debug {
		loglevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(loglevel),
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}

// checkSuper ensures the bootstrap super operator exists.
func (a *Application) checkSuper() {
	var count int64
	a.gormDB.Model(&domain.SysOpr{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("zencartpwd"), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Error(err)
		return
	}
	a.gormDB.Create(&domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  "Administrator",
		Email:     "admin@zencart.io",
		Username:  "admin",
		Password:  string(hash),
		Level:     "super",
		Status:    "enabled",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	zap.S().Info("created default super operator")
}

// checkSettings seeds default settings rows that admins can edit later.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Type: "system", Name: "SystemTitle", Value: "Zencart Digital Catalog"},
		{Type: "system", Name: "OprLogRetentionDays", Value: "90"},
		{Type: "storefront", Name: "CountryCode", Value: a.appConfig.Storefront.CountryCode},
		{Type: "storefront", Name: "VerifyCodeTTLMinutes", Value: "10"},
	}
	for _, d := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", d.Type, d.Name).Count(&count)
		if count == 0 {
			d.ID = common.UUIDint64()
			d.CreatedAt = time.Now()
			d.UpdatedAt = time.Now()
			a.gormDB.Create(&d)
		}
	}
}
