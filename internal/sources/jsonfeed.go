package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"eventpipe/internal/config"
	"eventpipe/internal/logger"
	"eventpipe/internal/models"
)

// JSON feed errors.
var (
	ErrNotJSONArray  = errors.New("json feed items are not an array")
	ErrItemsNotFound = errors.New("json feed items key not found")
)

// JSONAdapter extracts candidates from a JSON feed, mapping per-source
// field names onto the raw candidate shape.
type JSONAdapter struct {
	src     config.SourceConfig
	fetcher *Fetcher
	log     *logger.Logger
}

// NewJSONAdapter creates a JSON adapter for one source.
func NewJSONAdapter(src config.SourceConfig, fetcher *Fetcher, log *logger.Logger) *JSONAdapter {
	return &JSONAdapter{src: src, fetcher: fetcher, log: log.With("source", src.Name)}
}

// Name returns the configured source name.
func (a *JSONAdapter) Name() string {
	return a.src.Name
}

// Fetch downloads the feed and maps each item. Items that produce no
// title are skipped; they never fail the source.
func (a *JSONAdapter) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	body, err := a.fetcher.Get(ctx, a.src.URL, time.Duration(a.src.MinDelayMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	items, err := a.extractItems(body)
	if err != nil {
		return nil, err
	}

	fetchTime := time.Now()
	fields := a.src.Fields

	var candidates []models.RawCandidate

	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		raw := models.RawCandidate{
			SourceName:   a.src.Name,
			SourceURL:    a.src.URL,
			FetchTime:    fetchTime,
			Title:        getString(item, fields.Title, "title"),
			StartText:    getString(item, fields.Start, "start"),
			EndText:      getString(item, fields.End, "end"),
			Description:  getString(item, fields.Description, "description"),
			VenueText:    getString(item, fields.Venue, "venue"),
			AddressText:  getString(item, fields.Address, "address"),
			CategoryHint: getString(item, fields.Category, "category"),
			CostText:     getString(item, fields.Cost, "cost"),
			WebsiteURL:   getString(item, fields.URL, "url"),
			ImageURL:     getString(item, fields.Image, "image"),
			Latitude:     getFloat(item, fields.Latitude, "latitude"),
			Longitude:    getFloat(item, fields.Longitude, "longitude"),
		}

		if raw.VenueText == "" {
			raw.VenueText = a.src.Venue
		}

		if raw.Title == "" {
			a.log.Debug("skipping feed item without title")

			continue
		}

		candidates = append(candidates, raw)
	}

	return candidates, nil
}

func (a *JSONAdapter) extractItems(body []byte) ([]any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse json from %s: %w", a.src.URL, err)
	}

	if a.src.Fields.Items == "" {
		items, ok := payload.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotJSONArray, a.src.URL)
		}

		return items, nil
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemsNotFound, a.src.URL)
	}

	value, ok := object[a.src.Fields.Items]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrItemsNotFound, a.src.Fields.Items, a.src.URL)
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotJSONArray, a.src.Fields.Items, a.src.URL)
	}

	return items, nil
}

// getString extracts a loosely-typed attribute as a string.
func getString(item map[string]any, key, fallbackKey string) string {
	if key == "" {
		key = fallbackKey
	}

	value, ok := item[key]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// getFloat extracts a numeric attribute, accepting numeric strings.
func getFloat(item map[string]any, key, fallbackKey string) *float64 {
	if key == "" {
		key = fallbackKey
	}

	value, ok := item[key]
	if !ok || value == nil {
		return nil
	}

	switch v := value.(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}

	return nil
}
