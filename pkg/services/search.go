package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/richtext"
	"feuerwehr-web/pkg/store"
)

const (
	minQueryRunes = 2
	searchPool    = 100
	maxResults    = 10
)

type SearchResult struct {
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Excerpt     string      `json:"excerpt"`
	Category    string      `json:"category,omitempty"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
	Date        string      `json:"date"`
	URL         string      `json:"url"`
	Locale      i18n.Locale `json:"locale"`
}

type SearchService interface {
	// Search matches published posts in l, retrying in the other locale when
	// nothing matches. Queries under two characters return no results.
	Search(ctx context.Context, q string, l i18n.Locale) ([]SearchResult, error)
}

type searchService struct {
	posts store.PostRepository
}

func NewSearchService(posts store.PostRepository) SearchService {
	return &searchService{posts: posts}
}

func (s *searchService) Search(ctx context.Context, q string, l i18n.Locale) ([]SearchResult, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if utf8.RuneCountInString(q) < minQueryRunes {
		return []SearchResult{}, nil
	}

	posts, err := s.posts.Searchable(ctx, searchPool)
	if err != nil {
		return nil, err
	}

	results := matchPosts(posts, q, l, l)
	if len(results) == 0 {
		results = matchPosts(posts, q, i18n.Other(l), l)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// matchPosts returns the posts whose text in locale in contains q. Links keep
// the visitor's locale.
func matchPosts(posts []models.Post, q string, in, visitor i18n.Locale) []SearchResult {
	results := []SearchResult{}
	for i := range posts {
		p := &posts[i]
		if !strings.Contains(searchText(p, in), q) {
			continue
		}
		published := postDate(p)
		r := SearchResult{
			Title:       p.Title.Get(in, p.Slug),
			Slug:        p.Slug,
			Excerpt:     postExcerpt(p, in),
			PublishedAt: &published,
			Date:        i18n.FormatDate(published, visitor),
			URL:         i18n.URL("/news/"+p.Slug, visitor),
			Locale:      in,
		}
		if p.Category != nil {
			r.Category = p.Category.Label.Get(in, p.Category.Slug)
		}
		results = append(results, r)
	}
	return results
}

// searchText is the lower-cased text of p in exactly locale l, without
// falling back to the other locale.
func searchText(p *models.Post, l i18n.Locale) string {
	var sb strings.Builder
	sb.WriteString(p.Title[l])
	sb.WriteByte('\n')
	if p.Category != nil {
		sb.WriteString(p.Category.Label[l])
		sb.WriteByte('\n')
	}
	sb.WriteString(p.Excerpt[l])
	sb.WriteByte('\n')
	if doc := p.Content[l]; len(doc) > 0 {
		sb.WriteString(richtext.PlainText(doc))
		sb.WriteByte('\n')
	}
	sb.WriteString(p.Markdown[l])
	return strings.ToLower(sb.String())
}
