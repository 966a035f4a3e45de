package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
)

const (
	ImportPosts = "posts"
	ImportPages = "pages"
)

type ImportOptions struct {
	// Kind is ImportPosts or ImportPages.
	Kind string
	// Locale applies to files without a .de/.en name suffix.
	Locale i18n.Locale
}

type ImportReport struct {
	Imported []string          `json:"imported"`
	Failed   map[string]string `json:"failed"`
}

type ImportService interface {
	// ImportDir imports every markdown file below dir. Files that fail are
	// listed in the report; only a walk error fails the whole import.
	ImportDir(ctx context.Context, dir string, opts ImportOptions) (*ImportReport, error)
	// ImportFile imports one file and returns the slug it was stored under.
	ImportFile(ctx context.Context, name string, content []byte, opts ImportOptions) (string, error)
}

type importService struct {
	store  *store.Store
	schema *models.CMSConfig
}

func NewImportService(st *store.Store, schema *models.CMSConfig) ImportService {
	return &importService{store: st, schema: schema}
}

func (s *importService) ImportDir(ctx context.Context, dir string, opts ImportOptions) (*ImportReport, error) {
	report := &ImportReport{Imported: []string{}, Failed: map[string]string{}}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		content, err := os.ReadFile(path)
		if err != nil {
			report.Failed[rel] = err.Error()
			return nil
		}
		slug, err := s.ImportFile(ctx, d.Name(), content, opts)
		if err != nil {
			logger.Warn("import failed", zap.String("file", rel), zap.Error(err))
			report.Failed[rel] = err.Error()
			return nil
		}
		report.Imported = append(report.Imported, slug)
		return nil
	})
	if err != nil {
		return report, err
	}
	logger.Info("import finished", zap.String("dir", dir), zap.String("kind", opts.Kind),
		zap.Int("imported", len(report.Imported)), zap.Int("failed", len(report.Failed)))
	return report, nil
}

var localeSuffix = regexp.MustCompile(`\.(de|en)$`)

// fileSlugAndLocale derives the slug from a file name such as
// "2024-03-07-brand.en.md". Hugo's "index.md"/"_index.md" bundles have no
// usable name and need a slug in the front matter.
func fileSlugAndLocale(name string, fallback i18n.Locale) (string, i18n.Locale) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	l := fallback
	if m := localeSuffix.FindStringSubmatch(base); m != nil {
		l = i18n.Locale(m[1])
		base = strings.TrimSuffix(base, m[0])
	}
	if base == "index" || base == "_index" {
		base = ""
	}
	return Slugify(base), l
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, transliterates umlauts and joins words with dashes.
func Slugify(s string) string {
	s = strings.ToLower(replaceUmlauts.Replace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (s *importService) ImportFile(ctx context.Context, name string, content []byte, opts ImportOptions) (string, error) {
	collection, ok := s.schema.Collection(opts.Kind)
	if !ok || (opts.Kind != ImportPosts && opts.Kind != ImportPages) {
		return "", fmt.Errorf("unsupported import kind %q", opts.Kind)
	}
	if !opts.Locale.Valid() {
		opts.Locale = i18n.DefaultLocale
	}

	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return "", err
	}
	slug, l := fileSlugAndLocale(name, opts.Locale)
	if v := fmString(fm, "slug"); v != "" {
		slug = Slugify(v)
	}
	if v := fmString(fm, "lang"); v != "" {
		l = i18n.ParseLocale(v)
	}
	if slug == "" {
		return "", errors.New("missing slug")
	}

	status, explicit := importStatus(fm, collection)
	title := localizedField(fm, "title", l)
	if title.IsZero() {
		return "", errors.New("missing title")
	}
	excerpt := localizedField(fm, "excerpt", l)
	if excerpt.IsZero() {
		excerpt = localizedField(fm, "description", l)
	}

	switch opts.Kind {
	case ImportPosts:
		var categoryID *string
		if c := Slugify(firstString(fm, "category", "categories")); c != "" {
			cat, err := s.store.Categories.EnsureSlug(ctx, c)
			if err != nil {
				return "", err
			}
			categoryID = &cat.ID
		}
		_, err = s.store.Posts.UpsertBySlug(ctx, slug, func(p *models.Post) {
			p.Title = mergeText(p.Title, title)
			p.Excerpt = mergeText(p.Excerpt, excerpt)
			p.Markdown = mergeText(p.Markdown, i18n.Text{l: body})
			if explicit || p.ID == "" {
				p.Status = status
			}
			if categoryID != nil {
				p.CategoryID = categoryID
			}
			if t, ok := fmTime(fm, "date"); ok {
				p.PublishedAt = &t
			}
			if f, ok := fmBool(fm, "featured"); ok {
				p.Featured = f
			}
		})
	case ImportPages:
		_, err = s.store.Pages.UpsertBySlug(ctx, slug, func(p *models.Page) {
			p.Title = mergeText(p.Title, title)
			p.Markdown = mergeText(p.Markdown, i18n.Text{l: body})
			if explicit || p.ID == "" {
				p.Status = status
			}
			if f, ok := fmBool(fm, "showinfooter"); ok {
				p.ShowInFooter = f
			}
		})
	}
	if err != nil {
		return "", err
	}
	return slug, nil
}

// importStatus reads "status", then Hugo's "draft" flag, then the schema
// default. explicit is false when the file names no status; the default then
// only applies to new documents.
func importStatus(fm map[string]interface{}, collection *models.Collection) (status models.Status, explicit bool) {
	if st := models.Status(strings.ToLower(fmString(fm, "status"))); st.Valid() {
		return st, true
	}
	if draft, ok := fmBool(fm, "draft"); ok {
		if draft {
			return models.StatusDraft, true
		}
		return models.StatusPublished, true
	}
	defaults := map[string]interface{}{}
	ApplyCollectionDefaults(defaults, collection)
	if st := models.Status(fmString(defaults, "status")); st.Valid() {
		return st, false
	}
	return models.StatusDraft, false
}

// localizedField reads key_de / key_en, with a bare key applying to the
// file's locale.
func localizedField(fm map[string]interface{}, key string, l i18n.Locale) i18n.Text {
	t := i18n.Text{}
	for _, loc := range i18n.Locales {
		if v := fmString(fm, key+"_"+string(loc)); v != "" {
			t[loc] = v
		}
	}
	if v := fmString(fm, key); v != "" && t[l] == "" {
		t[l] = v
	}
	return t
}

func firstString(fm map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := fm[k].(type) {
		case []interface{}:
			if len(v) > 0 {
				return strings.TrimSpace(fmt.Sprint(v[0]))
			}
		default:
			if s := fmString(fm, k); s != "" {
				return s
			}
		}
	}
	return ""
}

// mergeText overlays the non-empty values of update onto base.
func mergeText(base, update i18n.Text) i18n.Text {
	out := i18n.Text{}
	for l, v := range base {
		out[l] = v
	}
	for l, v := range update {
		if v != "" {
			out[l] = v
		}
	}
	return out
}
