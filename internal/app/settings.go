package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/pkg/common"
	"go.uber.org/zap"
)

const settingsCacheTTL = 30 * time.Second

// SettingsManager reads sys_config rows with a short-lived cache so hot
// paths (storefront handlers) don't hit the database per request.
type SettingsManager struct {
	app      DBProvider
	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewSettingsManager(app DBProvider) *SettingsManager {
	return &SettingsManager{app: app, cache: make(map[string]string)}
}

func (m *SettingsManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.cachedAt) < settingsCacheTTL {
		c := m.cache
		m.mu.RUnlock()
		return c
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.S().Warnf("settings load failed: %s", err)
		return m.cache
	}
	fresh := make(map[string]string, len(rows))
	for _, r := range rows {
		fresh[r.Type+"/"+r.Name] = r.Value
	}
	m.mu.Lock()
	m.cache = fresh
	m.cachedAt = time.Now()
	m.mu.Unlock()
	return fresh
}

func (m *SettingsManager) GetString(category, key string) string {
	return m.load()[category+"/"+key]
}

func (m *SettingsManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.load()[category+"/"+key])
}

func (m *SettingsManager) GetBool(category, key string) bool {
	return cast.ToBool(m.load()[category+"/"+key])
}

// Set upserts a settings row and invalidates the cache.
func (m *SettingsManager) Set(category, key, value string) error {
	db := m.app.DB()
	var row domain.SysConfig
	err := db.Where("type = ? and name = ?", category, key).First(&row).Error
	if err != nil {
		row = domain.SysConfig{
			ID:        common.UUIDint64(),
			Type:      category,
			Name:      key,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err = db.Create(&row).Error
	} else {
		err = db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cachedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
