package translation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/observability/telemetry"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

const cachePrefix = "translation:"

// Resolver translates transcripts into the working language. It consults the
// offline phrase table, then the cache, then the provider.
type Resolver struct {
	provider ports.TranslationProvider
	cache    ports.Cache
	ttl      time.Duration
	tables   map[domain.Language]phraseTable
	log      *zap.Logger
}

// NewResolver builds a resolver with the built-in phrase tables. cache may be nil.
func NewResolver(provider ports.TranslationProvider, cache ports.Cache, ttl time.Duration, log *zap.Logger) *Resolver {
	tables := make(map[domain.Language]phraseTable, len(defaultPhrases))
	for lang, entries := range defaultPhrases {
		tables[lang] = newPhraseTable(entries)
	}
	return &Resolver{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		tables:   tables,
		log:      log,
	}
}

var _ ports.TextTranslator = (*Resolver)(nil)

func (r *Resolver) ToWorkingLanguage(ctx context.Context, text string, source domain.Language) string {
	if source == domain.WorkingLanguage || strings.TrimSpace(text) == "" {
		telemetry.TranslationLookupsTotal.WithLabelValues("passthrough").Inc()
		return text
	}

	if table, ok := r.tables[source]; ok {
		if phrase, ok := table.lookup(text); ok {
			telemetry.TranslationLookupsTotal.WithLabelValues("phrase_table").Inc()
			r.log.Debug("Translation from phrase table",
				zap.String("source", string(source)),
				zap.String("text", text),
				zap.String("translated", phrase),
			)
			return phrase
		}
	}

	key := cachePrefix + string(source) + ":" + text
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err == nil {
			telemetry.TranslationLookupsTotal.WithLabelValues("cache").Inc()
			return cached
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			r.log.Warn("Translation cache read failed", zap.Error(err))
		}
	}

	translated, err := r.provider.Translate(ctx, text, string(source), string(domain.WorkingLanguage))
	if err != nil || strings.TrimSpace(translated) == "" {
		telemetry.TranslationLookupsTotal.WithLabelValues("fallback").Inc()
		r.log.Warn("Translation failed, using original text",
			zap.String("source", string(source)),
			zap.String("text", text),
			zap.Error(err),
		)
		return text
	}
	telemetry.TranslationLookupsTotal.WithLabelValues("provider").Inc()

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, translated, r.ttl); err != nil {
			r.log.Warn("Translation cache write failed", zap.Error(err))
		}
	}
	return translated
}
