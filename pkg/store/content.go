package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
)

type PostListOptions struct {
	CategoryID string
	Offset     int
	Limit      int
}

type PostRepository interface {
	// ListPublished returns one page of published posts and the total count.
	ListPublished(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error)
	Latest(ctx context.Context, n int) ([]models.Post, error)
	BySlug(ctx context.Context, slug string) (*models.Post, error)
	// Searchable returns up to limit published posts, newest first.
	Searchable(ctx context.Context, limit int) ([]models.Post, error)
	// UpsertBySlug loads the post with slug in any status, or starts a new
	// one, lets fn modify it and saves the result.
	UpsertBySlug(ctx context.Context, slug string, fn func(*models.Post)) (*models.Post, error)
}

type postRepository struct{ base }

func publishedPosts(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.Post{}).
		Where("status = ? AND (published_at IS NULL OR published_at <= ?)", models.StatusPublished, time.Now())
}

func withPostRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").
		Preload("CoverImage").
		Order("published_at DESC, created_at DESC")
}

func (r *postRepository) ListPublished(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error) {
	var (
		posts []models.Post
		total int64
	)
	err := r.do(ctx, "posts.listPublished", func(tx *gorm.DB) error {
		filter := func() *gorm.DB {
			q := publishedPosts(tx)
			if opts.CategoryID != "" {
				q = q.Where("category_id = ?", opts.CategoryID)
			}
			return q
		}
		if err := filter().Count(&total).Error; err != nil {
			return err
		}
		q := withPostRelations(filter())
		if opts.Limit > 0 {
			q = q.Offset(opts.Offset).Limit(opts.Limit)
		}
		return q.Find(&posts).Error
	})
	return posts, total, err
}

func (r *postRepository) Latest(ctx context.Context, n int) ([]models.Post, error) {
	var posts []models.Post
	err := r.do(ctx, "posts.latest", func(tx *gorm.DB) error {
		return withPostRelations(publishedPosts(tx)).Limit(n).Find(&posts).Error
	})
	return posts, err
}

func (r *postRepository) BySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.do(ctx, "posts.bySlug", func(tx *gorm.DB) error {
		return withPostRelations(publishedPosts(tx)).Where("slug = ?", slug).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Searchable(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.do(ctx, "posts.searchable", func(tx *gorm.DB) error {
		return withPostRelations(publishedPosts(tx)).Limit(limit).Find(&posts).Error
	})
	return posts, err
}

func (r *postRepository) UpsertBySlug(ctx context.Context, slug string, fn func(*models.Post)) (*models.Post, error) {
	var post models.Post
	err := r.do(ctx, "posts.upsert", func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			post = models.Post{}
			err := tx.Where("slug = ?", slug).First(&post).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			fn(&post)
			post.Slug = slug
			if post.ID == "" {
				return tx.Omit(clause.Associations).Create(&post).Error
			}
			return tx.Omit(clause.Associations).Save(&post).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

type CategoryRepository interface {
	Public(ctx context.Context) ([]models.Category, error)
	BySlug(ctx context.Context, slug string) (*models.Category, error)
	EnsureSlug(ctx context.Context, slug string) (*models.Category, error)
}

type categoryRepository struct{ base }

func (r *categoryRepository) Public(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.do(ctx, "categories.public", func(tx *gorm.DB) error {
		return tx.Where("public = ?", true).Order("sort_order ASC, slug ASC").Find(&cats).Error
	})
	return cats, err
}

func (r *categoryRepository) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := r.do(ctx, "categories.bySlug", func(tx *gorm.DB) error {
		return tx.Where("slug = ?", slug).First(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// EnsureSlug returns the category with slug, creating a public one labelled
// with the slug when it does not exist yet.
func (r *categoryRepository) EnsureSlug(ctx context.Context, slug string) (*models.Category, error) {
	if slug == "" {
		return nil, errors.New("empty category slug")
	}
	var cat models.Category
	err := r.do(ctx, "categories.ensure", func(tx *gorm.DB) error {
		return tx.Where("slug = ?", slug).
			Attrs(models.Category{Slug: slug, Public: true, Label: labelFromSlug(slug)}).
			FirstOrCreate(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

type PageRepository interface {
	Published(ctx context.Context) ([]models.Page, error)
	BySlug(ctx context.Context, slug string) (*models.Page, error)
	UpsertBySlug(ctx context.Context, slug string, fn func(*models.Page)) (*models.Page, error)
}

type pageRepository struct{ base }

func (r *pageRepository) Published(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	err := r.do(ctx, "pages.published", func(tx *gorm.DB) error {
		return tx.Where("status = ?", models.StatusPublished).Order("sort_order ASC, slug ASC").Find(&pages).Error
	})
	return pages, err
}

func (r *pageRepository) BySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := r.do(ctx, "pages.bySlug", func(tx *gorm.DB) error {
		return tx.Where("slug = ? AND status = ?", slug, models.StatusPublished).First(&page).Error
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) UpsertBySlug(ctx context.Context, slug string, fn func(*models.Page)) (*models.Page, error) {
	var page models.Page
	err := r.do(ctx, "pages.upsert", func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			page = models.Page{}
			err := tx.Where("slug = ?", slug).First(&page).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			fn(&page)
			page.Slug = slug
			if page.ID == "" {
				return tx.Create(&page).Error
			}
			return tx.Save(&page).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

type AlbumRepository interface {
	Published(ctx context.Context) ([]models.GalleryAlbum, error)
	BySlug(ctx context.Context, slug string) (*models.GalleryAlbum, error)
}

type albumRepository struct{ base }

func (r *albumRepository) Published(ctx context.Context) ([]models.GalleryAlbum, error) {
	var albums []models.GalleryAlbum
	err := r.do(ctx, "albums.published", func(tx *gorm.DB) error {
		return tx.Where("status = ?", models.StatusPublished).Order("album_date DESC, created_at DESC").Find(&albums).Error
	})
	return albums, err
}

func (r *albumRepository) BySlug(ctx context.Context, slug string) (*models.GalleryAlbum, error) {
	var album models.GalleryAlbum
	err := r.do(ctx, "albums.bySlug", func(tx *gorm.DB) error {
		return tx.Where("slug = ? AND status = ?", slug, models.StatusPublished).First(&album).Error
	})
	if err != nil {
		return nil, err
	}
	return &album, nil
}

type TeamRepository interface {
	Active(ctx context.Context) ([]models.TeamMember, error)
}

type teamRepository struct{ base }

func (r *teamRepository) Active(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.do(ctx, "team.active", func(tx *gorm.DB) error {
		return tx.Where("active = ?", true).Preload("Photo").Order("sort_order ASC, name ASC").Find(&members).Error
	})
	return members, err
}

type SponsorRepository interface {
	Active(ctx context.Context) ([]models.Sponsor, error)
}

type sponsorRepository struct{ base }

func (r *sponsorRepository) Active(ctx context.Context) ([]models.Sponsor, error) {
	var sponsors []models.Sponsor
	err := r.do(ctx, "sponsors.active", func(tx *gorm.DB) error {
		return tx.Where("active = ?", true).Preload("Logo").Order("sort_order ASC, name ASC").Find(&sponsors).Error
	})
	return sponsors, err
}

func labelFromSlug(slug string) i18n.Text {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return i18n.NewText(strings.Join(words, " "))
}
