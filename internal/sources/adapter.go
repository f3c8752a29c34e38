package sources

import (
	"context"
	"fmt"

	"eventpipe/internal/config"
	"eventpipe/internal/logger"
	"eventpipe/internal/models"
)

// Adapter produces a finite sequence of raw candidate records from
// one configured source. An adapter may return candidates alongside
// an error; intake treats that as a partial result rather than
// discarding what was extracted.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawCandidate, error)
}

// BuildAdapters constructs adapters for all enabled sources.
func BuildAdapters(cfg *config.Config, fetcher *Fetcher, log *logger.Logger) ([]Adapter, error) {
	var adapters []Adapter

	for _, src := range cfg.GetEnabledSources() {
		switch src.Kind {
		case config.KindHTML:
			adapters = append(adapters, NewHTMLAdapter(src, fetcher, log))
		case config.KindJSON:
			adapters = append(adapters, NewJSONAdapter(src, fetcher, log))
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrSourceUnknownKind, src.Kind)
		}
	}

	return adapters, nil
}
