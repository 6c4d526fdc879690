package usecase

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/cache"
)

// KnowledgeConfig contains knowledge-base cache lifetimes
type KnowledgeConfig struct {
	SectionsTTL time.Duration // Section listing, default 2 hours
	ArticleTTL  time.Duration // Direct article fetch, default 1 hour
	SearchTTL   time.Duration // Searches and section listings, default 15 minutes
}

// DefaultKnowledgeConfig returns default knowledge-base configuration
func DefaultKnowledgeConfig() KnowledgeConfig {
	return KnowledgeConfig{
		SectionsTTL: 2 * time.Hour,
		ArticleTTL:  1 * time.Hour,
		SearchTTL:   15 * time.Minute,
	}
}

const (
	opSections        = "sections"
	opArticle         = "article"
	opSearch          = "search"
	opSectionArticles = "section_articles"
)

// KnowledgeUsecase serves knowledge-base reads through the cache layer.
//
// Cached values are stored exactly as the adapter returned them. Locale
// rewriting and body truncation produce copies on every read.
type KnowledgeUsecase struct {
	repo repo.TicketingRepo

	sections *cache.Cache[[]domain.Section]
	articles *cache.Cache[domain.Article]
	lists    *cache.Cache[[]domain.Article]
}

// NewKnowledgeUsecase creates a new knowledge-base usecase
func NewKnowledgeUsecase(ticketingRepo repo.TicketingRepo, config KnowledgeConfig, opts ...cache.Option) *KnowledgeUsecase {
	defaults := DefaultKnowledgeConfig()
	if config.SectionsTTL <= 0 {
		config.SectionsTTL = defaults.SectionsTTL
	}
	if config.ArticleTTL <= 0 {
		config.ArticleTTL = defaults.ArticleTTL
	}
	if config.SearchTTL <= 0 {
		config.SearchTTL = defaults.SearchTTL
	}

	return &KnowledgeUsecase{
		repo:     ticketingRepo,
		sections: cache.New[[]domain.Section](opSections, config.SectionsTTL, opts...),
		articles: cache.New[domain.Article](opArticle, config.ArticleTTL, opts...),
		lists:    cache.New[[]domain.Article](opSearch, config.SearchTTL, opts...),
	}
}

// ListSections returns all knowledge-base sections
func (uc *KnowledgeUsecase) ListSections(ctx context.Context) ([]domain.Section, error) {
	sections, err := uc.sections.GetOrCompute(cacheKey(opSections), func() ([]domain.Section, error) {
		return uc.repo.ListSections(ctx)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(sections), nil
}

// GetArticle returns one article with its full body, its url rewritten to locale
func (uc *KnowledgeUsecase) GetArticle(ctx context.Context, articleID int64, locale string) (*domain.Article, error) {
	key := cacheKey(opArticle, locale, strconv.FormatInt(articleID, 10))
	article, err := uc.articles.GetOrCompute(key, func() (domain.Article, error) {
		a, err := uc.repo.GetArticle(ctx, articleID, locale)
		if err != nil {
			return domain.Article{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, err
	}

	localized := article.Localized(locale)
	return &localized, nil
}

// SearchArticles runs a full-text search and returns at most limit summaries
func (uc *KnowledgeUsecase) SearchArticles(ctx context.Context, query, locale string, limit int) ([]domain.Article, error) {
	key := cacheKey(opSearch, locale, strconv.Quote(query), strconv.Itoa(limit))
	articles, err := uc.lists.GetOrCompute(key, func() ([]domain.Article, error) {
		return uc.repo.SearchArticles(ctx, query, locale, limit)
	})
	if err != nil {
		return nil, err
	}
	return summarize(articles, locale, limit), nil
}

// ListSectionArticles returns at most limit article summaries of a section
func (uc *KnowledgeUsecase) ListSectionArticles(ctx context.Context, sectionID int64, locale string, limit int) ([]domain.Article, error) {
	key := cacheKey(opSectionArticles, locale, strconv.FormatInt(sectionID, 10), strconv.Itoa(limit))
	articles, err := uc.lists.GetOrCompute(key, func() ([]domain.Article, error) {
		return uc.repo.ListSectionArticles(ctx, sectionID, locale, limit)
	})
	if err != nil {
		return nil, err
	}
	return summarize(articles, locale, limit), nil
}

// CacheStats returns counters of every knowledge-base cache
func (uc *KnowledgeUsecase) CacheStats() []cache.Stats {
	return []cache.Stats{uc.sections.Stats(), uc.articles.Stats(), uc.lists.Stats()}
}

// PurgeExpired drops expired entries from every cache
func (uc *KnowledgeUsecase) PurgeExpired() int {
	return uc.sections.Purge() + uc.articles.Purge() + uc.lists.Purge()
}

// summarize builds the list view: at most limit entries, bodies truncated, urls localized
func summarize(articles []domain.Article, locale string, limit int) []domain.Article {
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Summary().Localized(locale))
	}
	return out
}

// cacheKey joins an operation name and its parameters in the order given.
// Callers pass locale first, then the query-affecting parameters, and quote
// free text so it cannot contain the separator.
func cacheKey(op string, parts ...string) string {
	if len(parts) == 0 {
		return op
	}
	return op + "|" + strings.Join(parts, "|")
}
