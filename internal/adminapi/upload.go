package adminapi

import (
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/guonaihong/gout"
	"github.com/labstack/echo/v4"
	"github.com/panjf2000/ants/v2"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/metrics"
	"go.uber.org/zap"
)

func registerUploadRoutes() {
	webserver.ApiPOST("/upload/images", uploadImages)
}

type uploadResult struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// uploadImages pushes base64 payloads to the image storage worker,
// fanning out over a bounded goroutine pool. Results keep input order.
func uploadImages(c echo.Context) error {
	if _, err := currentOperator(c); err != nil {
		return err
	}
	cfg := webserver.GetApp(c).Config().Storage
	if cfg.UploadURL == "" {
		return fail(c, http.StatusServiceUnavailable, "INTERNAL", "image storage is not configured")
	}

	form := struct {
		Base64Strings []string `json:"base64_strings" form:"base64_strings"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if len(form.Base64Strings) == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION", "no images given")
	}

	workers := cfg.UploadWorkers
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "upload pool unavailable")
	}
	defer pool.Release()

	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Bucket+":"+cfg.APIToken))
	results := make([]uploadResult, len(form.Base64Strings))
	var wg sync.WaitGroup
	for i, payload := range form.Base64Strings {
		i, payload := i, payload
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = uploadOne(cfg.UploadURL, auth, payload)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = uploadResult{Error: "upload pool rejected task"}
		}
	}
	wg.Wait()

	metrics.CounterInc(metrics.MetricUploadImages)
	return ok(c, results)
}

func uploadOne(uploadURL, auth, payload string) uploadResult {
	var respBody string
	var code int
	err := gout.PUT(uploadURL).
		SetHeader(gout.H{
			"Authorization": auth,
			"Content-Type":  "application/json",
		}).
		SetJSON(gout.H{"body": payload}).
		BindBody(&respBody).
		Code(&code).
		Do()
	if err != nil {
		zap.S().Errorf("image upload failed: %s", err)
		return uploadResult{Error: "upload failed"}
	}
	if code < 200 || code >= 300 {
		return uploadResult{Error: "upload failed", URL: ""}
	}
	// The worker answers with the public URL as plain text.
	return uploadResult{URL: respBody}
}
