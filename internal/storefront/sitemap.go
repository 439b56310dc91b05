package storefront

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubdomainSlug extracts the tenant slug from a request host under the
// configured root domain. Returns "" for the apex, www and foreign hosts.
func SubdomainSlug(host, rootDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	rootDomain = strings.ToLower(rootDomain)
	if rootDomain == "" || host == rootDomain {
		return ""
	}
	if !strings.HasSuffix(host, "."+rootDomain) {
		return ""
	}
	sub := strings.TrimSuffix(host, "."+rootDomain)
	if sub == "" || sub == "www" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}

// sitemap lists every visible storefront URL, ordered by slug.
func (h *Handler) sitemap(c echo.Context) error {
	var slugs []string
	err := h.app.DB().WithContext(c.Request().Context()).
		Table("store").
		Where("is_visible = ?", true).
		Order("slug").
		Pluck("slug", &slugs).Error
	if err != nil {
		zap.S().Errorf("sitemap query failed: %s", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	root := h.app.Config().Storefront.RootDomain
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, slug := range slugs {
		fmt.Fprintf(&b, "  <url><loc>https://%s/s/%s</loc></url>\n", root, slug)
	}
	b.WriteString("</urlset>\n")
	return c.Blob(http.StatusOK, "application/xml", []byte(b.String()))
}
