package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("ZENCART_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig("")
	assert.Equal(t, "zencart", cfg.System.Appid)
	assert.Equal(t, "55", cfg.Storefront.CountryCode)
	assert.Equal(t, 12, cfg.Storefront.CheckoutRatePerMin)
	assert.DirExists(t, filepath.Join(workdir, "data"))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ZENCART_SYSTEM_WORKDIR", t.TempDir())
	t.Setenv("ZENCART_WEB_PORT", "9999")
	t.Setenv("ZENCART_DB_HOST", "db.internal")
	t.Setenv("ZENCART_STOREFRONT_COUNTRY_CODE", "351")

	cfg := LoadConfig("")
	assert.Equal(t, 9999, cfg.Web.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "351", cfg.Storefront.CountryCode)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZENCART_SYSTEM_WORKDIR", "")
	cfile := filepath.Join(dir, "zencart.yml")
	yml := "system:\n  workdir: " + dir + "\nweb:\n  port: 2818\nstorefront:\n  root_domain: lojas.example.com\n"
	require.NoError(t, os.WriteFile(cfile, []byte(yml), 0644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 2818, cfg.Web.Port)
	assert.Equal(t, "lojas.example.com", cfg.Storefront.RootDomain)
	assert.Equal(t, dir, cfg.System.Workdir)
}
