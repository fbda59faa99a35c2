package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

var (
	// ErrNoIngredients is returned when a page yields no ingredient lines
	ErrNoIngredients = errors.New("scraper: no ingredients found")
	// ErrInvalidURL is returned for anything but absolute http(s) URLs
	ErrInvalidURL = errors.New("scraper: invalid URL")
)

// Importer pulls ingredient lists from recipe web pages
type Importer struct {
	fetcher *Fetcher
	log     *zap.Logger
}

// NewImporter creates a new importer
func NewImporter(fetcher *Fetcher, log *zap.Logger) *Importer {
	return &Importer{
		fetcher: fetcher,
		log:     log.Named("importer"),
	}
}

// Import fetches rawURL and returns its ingredient lines
func (i *Importer) Import(ctx context.Context, rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	content, err := i.fetcher.FetchURL(ctx, u.String())
	if err != nil {
		return nil, err
	}

	ingredients, err := ParseIngredients(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	i.log.Info("Imported ingredients",
		zap.String("url", u.String()),
		zap.Int("count", len(ingredients)))
	return ingredients, nil
}
