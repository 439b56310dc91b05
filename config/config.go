package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type MailConfig struct {
	SMTPHost string `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port" json:"smtp_port"`
	Username string `yaml:"username" json:"username"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	From     string `yaml:"from" json:"from"`
}

// StorefrontConfig controls the public catalog surface.
type StorefrontConfig struct {
	// CountryCode is prefixed to unit phone numbers when building wa.me links.
	CountryCode string `yaml:"country_code" json:"country_code"`
	// RootDomain is used to resolve tenant slugs from subdomains
	// (e.g. acme.zencart.io -> slug "acme").
	RootDomain string `yaml:"root_domain" json:"root_domain"`
	// CheckoutRatePerMin limits wa.me link generation per visitor.
	CheckoutRatePerMin int `yaml:"checkout_rate_per_min" json:"checkout_rate_per_min"`
}

type StorageConfig struct {
	// UploadURL is the image storage worker endpoint (base64 in, public URL out).
	UploadURL string `yaml:"upload_url" json:"upload_url"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	APIToken  string `yaml:"api_token" json:"api_token"`
	// UploadWorkers bounds concurrent uploads per request.
	UploadWorkers int `yaml:"upload_workers" json:"upload_workers"`
}

type BillingConfig struct {
	StripeWebhookSecret string `yaml:"stripe_webhook_secret" json:"stripe_webhook_secret"`
	KiwifyToken         string `yaml:"kiwify_token" json:"kiwify_token"`
}

type AppConfig struct {
	System     SysConfig        `yaml:"system" json:"system"`
	Web        WebConfig        `yaml:"web" json:"web"`
	Database   DBConfig         `yaml:"database" json:"database"`
	Logger     LogConfig        `yaml:"logger" json:"logger"`
	Mail       MailConfig       `yaml:"mail" json:"mail"`
	Storefront StorefrontConfig `yaml:"storefront" json:"storefront"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Billing    BillingConfig    `yaml:"billing" json:"billing"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "zencart",
		Location: "America/Sao_Paulo",
		Workdir:  "/var/zencart",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "zencart",
		User:     "postgres",
		Passwd:   "myzencart",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/zencart/zencart.log",
	},
	Mail: MailConfig{
		SMTPHost: "127.0.0.1",
		SMTPPort: 1025,
		From:     "no-reply@zencart.io",
	},
	Storefront: StorefrontConfig{
		CountryCode:        "55",
		RootDomain:         "zencart.io",
		CheckoutRatePerMin: 12,
	},
	Storage: StorageConfig{
		UploadWorkers: 4,
	},
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(cast.ToInt(evalue))
	}
}

// LoadConfig reads the YAML config file if present and applies
// ZENCART_* environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("ZENCART_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("ZENCART_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })
	setEnvValue("ZENCART_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("ZENCART_WEB_PORT", func(v int) { cfg.Web.Port = v })
	setEnvValue("ZENCART_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("ZENCART_WEB_BASE_URL", func(v string) { cfg.Web.BaseURL = v })
	setEnvValue("ZENCART_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("ZENCART_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("ZENCART_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("ZENCART_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("ZENCART_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("ZENCART_MAIL_SMTP_HOST", func(v string) { cfg.Mail.SMTPHost = v })
	setEnvIntValue("ZENCART_MAIL_SMTP_PORT", func(v int) { cfg.Mail.SMTPPort = v })
	setEnvValue("ZENCART_MAIL_USERNAME", func(v string) { cfg.Mail.Username = v })
	setEnvValue("ZENCART_MAIL_PWD", func(v string) { cfg.Mail.Passwd = v })
	setEnvValue("ZENCART_MAIL_FROM", func(v string) { cfg.Mail.From = v })
	setEnvValue("ZENCART_STOREFRONT_COUNTRY_CODE", func(v string) { cfg.Storefront.CountryCode = v })
	setEnvValue("ZENCART_STOREFRONT_ROOT_DOMAIN", func(v string) { cfg.Storefront.RootDomain = v })
	setEnvValue("ZENCART_STORAGE_UPLOAD_URL", func(v string) { cfg.Storage.UploadURL = v })
	setEnvValue("ZENCART_STORAGE_BUCKET", func(v string) { cfg.Storage.Bucket = v })
	setEnvValue("ZENCART_STORAGE_API_TOKEN", func(v string) { cfg.Storage.APIToken = v })
	setEnvValue("ZENCART_STRIPE_WEBHOOK_SECRET", func(v string) { cfg.Billing.StripeWebhookSecret = v })
	setEnvValue("ZENCART_KIWIFY_TOKEN", func(v string) { cfg.Billing.KiwifyToken = v })

	cfg.initDirs()
	return cfg
}
