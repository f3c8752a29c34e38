package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"eventpipe/internal/config"
	"eventpipe/internal/logger"
	"eventpipe/internal/models"
)

// Selector defaults covering the markup most venue calendars use.
const (
	defaultItemSelector  = "article, .event, .event-item, .event-listing, li.event"
	defaultTitleSelector = "h1, h2, h3, h4"
	defaultDateSelector  = "time, .date, .event-date"
)

// HTMLAdapter extracts candidates from an HTML calendar page using
// per-source CSS selectors.
type HTMLAdapter struct {
	src     config.SourceConfig
	fetcher *Fetcher
	log     *logger.Logger
}

// NewHTMLAdapter creates an HTML adapter for one source.
func NewHTMLAdapter(src config.SourceConfig, fetcher *Fetcher, log *logger.Logger) *HTMLAdapter {
	return &HTMLAdapter{src: src, fetcher: fetcher, log: log.With("source", src.Name)}
}

// Name returns the configured source name.
func (a *HTMLAdapter) Name() string {
	return a.src.Name
}

// Fetch downloads the source page and extracts one raw candidate per
// matched item. Items missing a usable title or date are skipped with
// a debug log; they never fail the source.
func (a *HTMLAdapter) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	body, err := a.fetcher.Get(ctx, a.src.URL, time.Duration(a.src.MinDelayMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", a.src.URL, err)
	}

	fetchTime := time.Now()
	sel := a.src.Selectors

	itemSelector := sel.Item
	if itemSelector == "" {
		itemSelector = defaultItemSelector
	}

	var candidates []models.RawCandidate

	doc.Find(itemSelector).Each(func(_ int, item *goquery.Selection) {
		raw := models.RawCandidate{
			SourceName:   a.src.Name,
			SourceURL:    a.src.URL,
			FetchTime:    fetchTime,
			Title:        a.selectText(item, sel.Title, defaultTitleSelector),
			StartText:    a.selectDate(item, sel.Date),
			EndText:      a.selectText(item, sel.End, ""),
			Description:  a.selectText(item, sel.Description, "p"),
			VenueText:    a.selectText(item, sel.Venue, ""),
			AddressText:  a.selectText(item, sel.Address, ""),
			CategoryHint: a.selectText(item, sel.Category, ""),
			CostText:     a.selectText(item, sel.Cost, ""),
		}

		if raw.VenueText == "" {
			raw.VenueText = a.src.Venue
		}

		if link := a.selectLink(item, sel.Link); link != "" {
			raw.WebsiteURL = link
		}

		if img := a.selectImage(item, sel.Image); img != "" {
			raw.ImageURL = img
		}

		if raw.Title == "" {
			a.log.Debug("skipping item without title")

			return
		}

		candidates = append(candidates, raw)
	})

	return candidates, nil
}

func (a *HTMLAdapter) selectText(item *goquery.Selection, selector, fallback string) string {
	if selector == "" {
		selector = fallback
	}

	if selector == "" {
		return ""
	}

	return strings.TrimSpace(item.Find(selector).First().Text())
}

// selectDate prefers the machine-readable datetime attribute of a
// <time> element over its display text.
func (a *HTMLAdapter) selectDate(item *goquery.Selection, selector string) string {
	if selector == "" {
		selector = defaultDateSelector
	}

	node := item.Find(selector).First()

	if dt, ok := node.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}

	return strings.TrimSpace(node.Text())
}

func (a *HTMLAdapter) selectLink(item *goquery.Selection, selector string) string {
	if selector == "" {
		selector = "a"
	}

	href, ok := item.Find(selector).First().Attr("href")
	if !ok {
		return ""
	}

	return a.resolveURL(href)
}

func (a *HTMLAdapter) selectImage(item *goquery.Selection, selector string) string {
	if selector == "" {
		selector = "img"
	}

	src, ok := item.Find(selector).First().Attr("src")
	if !ok {
		return ""
	}

	return a.resolveURL(src)
}

// resolveURL makes relative page links absolute against the source URL.
func (a *HTMLAdapter) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	base, err := url.Parse(a.src.URL)
	if err != nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
