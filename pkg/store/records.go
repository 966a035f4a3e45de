package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feuerwehr-web/pkg/models"
)

type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) error
	Get(ctx context.Context, id string) (*models.Media, error)
	// ByIDs returns the documents keyed by id; unknown ids are skipped.
	ByIDs(ctx context.Context, ids []string) (map[string]models.Media, error)
	List(ctx context.Context, offset, limit int) ([]models.Media, error)
	Delete(ctx context.Context, id string) error
}

type mediaRepository struct{ base }

func (r *mediaRepository) Create(ctx context.Context, m *models.Media) error {
	return r.do(ctx, "media.create", func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
}

func (r *mediaRepository) Get(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	err := r.do(ctx, "media.get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepository) ByIDs(ctx context.Context, ids []string) (map[string]models.Media, error) {
	out := make(map[string]models.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Media
	err := r.do(ctx, "media.byIds", func(tx *gorm.DB) error {
		return tx.Where("id IN ?", ids).Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func (r *mediaRepository) List(ctx context.Context, offset, limit int) ([]models.Media, error) {
	var list []models.Media
	err := r.do(ctx, "media.list", func(tx *gorm.DB) error {
		q := tx.Order("created_at DESC")
		if limit > 0 {
			q = q.Offset(offset).Limit(limit)
		}
		return q.Find(&list).Error
	})
	return list, err
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	return r.do(ctx, "media.delete", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Media{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type ContactRepository interface {
	Create(ctx context.Context, s *models.ContactSubmission) error
	SetStatus(ctx context.Context, id string, status models.SubmissionStatus) error
	CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error)
}

type contactRepository struct{ base }

func (r *contactRepository) Create(ctx context.Context, s *models.ContactSubmission) error {
	return r.do(ctx, "contact.create", func(tx *gorm.DB) error {
		return tx.Create(s).Error
	})
}

func (r *contactRepository) SetStatus(ctx context.Context, id string, status models.SubmissionStatus) error {
	return r.do(ctx, "contact.setStatus", func(tx *gorm.DB) error {
		res := tx.Model(&models.ContactSubmission{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *contactRepository) CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error) {
	var n int64
	err := r.do(ctx, "contact.count", func(tx *gorm.DB) error {
		return tx.Model(&models.ContactSubmission{}).Where("status = ?", status).Count(&n).Error
	})
	return n, err
}

type UserRepository interface {
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// Create stores the email lower-cased; a taken email yields ErrConflict.
	Create(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{ base }

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.do(ctx, "users.findByEmail", func(tx *gorm.DB) error {
		return tx.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.do(ctx, "users.get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.do(ctx, "users.create", func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.do(ctx, "users.updatePassword", func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash).Error
	})
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.do(ctx, "users.count", func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Count(&n).Error
	})
	return n, err
}

type GlobalRepository interface {
	// Get returns the raw JSON stored under slug.
	Get(ctx context.Context, slug string) ([]byte, error)
	Put(ctx context.Context, slug string, data []byte) error
}

type globalRepository struct{ base }

func (r *globalRepository) Get(ctx context.Context, slug string) ([]byte, error) {
	var g models.Global
	err := r.do(ctx, "globals.get", func(tx *gorm.DB) error {
		return tx.Where("slug = ?", slug).First(&g).Error
	})
	if err != nil {
		return nil, err
	}
	return []byte(g.Data), nil
}

func (r *globalRepository) Put(ctx context.Context, slug string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty global document")
	}
	return r.do(ctx, "globals.put", func(tx *gorm.DB) error {
		g := models.Global{Slug: slug, Data: string(data)}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&g).Error
	})
}
