package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"dairyai/internal/common"
)

// Fetcher downloads model artifacts from a remote base URL into the local
// models directory. Fetching happens before the registry's first load; a
// fetch failure is non-fatal and simply leaves the family to degrade the
// same way a missing file would.
type Fetcher struct {
	baseURL   string
	modelsDir string
	rest      *resty.Client
}

// NewFetcher creates a fetcher for the given artifact base URL.
func NewFetcher(baseURL, modelsDir string, timeout time.Duration) *Fetcher {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(30 * time.Second) // default fallback
	}
	return &Fetcher{baseURL: baseURL, modelsDir: modelsDir, rest: r}
}

// FetchAll downloads every known artifact that is not already present on
// disk. Returns the first error encountered after attempting all files.
func (f *Fetcher) FetchAll() error {
	files := []string{
		common.YieldModelFile,
		common.YieldScalerFile,
		common.MastitisModelFile,
		common.MastitisScalerFile,
	}

	if err := os.MkdirAll(f.modelsDir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	var firstErr error
	for _, name := range files {
		if err := f.fetchOne(name); err != nil {
			log.Warn().Err(err).Str("artifact", name).Msg("artifact fetch failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (f *Fetcher) fetchOne(name string) error {
	dest := filepath.Join(f.modelsDir, name)
	if _, err := os.Stat(dest); err == nil {
		log.Debug().Str("artifact", name).Msg("artifact already present, skipping fetch")
		return nil
	}

	url := f.baseURL + "/" + name
	resp, err := f.rest.R().Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("artifact fetch: status %d for %s", resp.StatusCode(), url)
	}

	if err := os.WriteFile(dest, resp.Body(), 0o600); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	log.Info().Str("artifact", name).Str("url", url).Msg("artifact fetched")
	return nil
}
