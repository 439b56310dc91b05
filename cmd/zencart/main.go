package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/zencartio/zencart/config"
	"github.com/zencartio/zencart/internal/adminapi"
	"github.com/zencartio/zencart/internal/app"
	"github.com/zencartio/zencart/internal/storefront"
	"github.com/zencartio/zencart/internal/webhooks"
	"github.com/zencartio/zencart/internal/webserver"
	"go.uber.org/zap"
)

var (
	h         = flag.Bool("h", false, "help usage")
	showVer   = flag.Bool("v", false, "show version")
	conffile  = flag.String("c", "/etc/zencart.yml", "config yaml file")
	initdb    = flag.Bool("initdb", false, "drop and recreate the database schema")
	initcfg   = flag.Bool("initcfg", false, "write the default config file and exit")
)

var gitVersion = "dev"

func printVersion() {
	fmt.Printf("zencart %s\n", gitVersion)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		printVersion()
		return
	}

	cfg := config.LoadConfig(*conffile)

	if *initcfg {
		if err := writeDefaultConfig(*conffile); err != nil {
			fmt.Fprintf(os.Stderr, "write config failed: %s\n", err)
			os.Exit(1)
		}
		return
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	carts, err := storefront.OpenCartStore(filepath.Join(cfg.GetDataDir(), "carts.db"))
	if err != nil {
		zap.S().Fatalf("cart store open failed: %s", err)
	}
	defer func() { _ = carts.Close() }()

	server := webserver.Init(application)
	adminapi.InitRouter()
	storefront.InitRouter(application, carts)
	webhooks.InitRouter(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		zap.S().Fatalf("web server failed: %s", err)
	}
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0644)
}

const defaultConfigYAML = `system:
  appid: zencart
  location: America/Sao_Paulo
  workdir: /var/zencart
  debug: true
web:
  host: 0.0.0.0
  port: 1816
  secret: change-me
database:
  type: postgres
  host: 127.0.0.1
  port: 5432
  name: zencart
  user: postgres
  passwd: myzencart
  max_conn: 100
  idle_conn: 10
logger:
  mode: development
  file_enable: true
  filename: /var/zencart/zencart.log
mail:
  smtp_host: 127.0.0.1
  smtp_port: 1025
  from: no-reply@zencart.io
storefront:
  country_code: "55"
  root_domain: zencart.io
  checkout_rate_per_min: 12
storage:
  upload_url: ""
  bucket: ""
  api_token: ""
  upload_workers: 4
billing:
  stripe_webhook_secret: ""
  kiwify_token: ""
`
