package application

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultSeedConcurrency = 4

// Seeder populates an empty store with a fixed list of sample images at
// startup. Each download runs through the normal ingest pipeline, so the store
// only ever sees canonical bytes. Seeding is best-effort: a failed download is
// logged and skipped, and images already present are never re-fetched.
type Seeder struct {
	svc         *ImageService
	client      *http.Client
	urls        []string
	concurrency int
}

func NewSeeder(svc *ImageService, client *http.Client, urls []string, concurrency int) *Seeder {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if concurrency <= 0 {
		concurrency = defaultSeedConcurrency
	}
	return &Seeder{
		svc:         svc,
		client:      client,
		urls:        urls,
		concurrency: concurrency,
	}
}

// Run downloads and ingests every configured sample image that is not already
// in the store. Sample n is named image_<n>.jpg before ingest and therefore
// image_<n>.png in the store.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list store before seeding: %w", err)
	}

	present := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		present[name] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, url := range s.urls {
		url := url
		originalName := fmt.Sprintf("image_%d.jpg", i+1)
		if _, ok := present[CanonicalName(originalName)]; ok {
			continue
		}

		g.Go(func() error {
			if err := s.seedOne(ctx, originalName, url); err != nil {
				log.Warn().Err(err).Str("url", url).Str("name", originalName).Msg("Failed to seed image")
				return nil // best-effort: keep seeding the rest
			}
			log.Info().Str("name", originalName).Msg("Seeded image")
			return nil
		})
	}

	return g.Wait()
}

func (s *Seeder) seedOne(ctx context.Context, originalName, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if _, err := s.svc.Ingest(ctx, originalName, data); err != nil {
		return err
	}

	return nil
}
