package store

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feuerwehr-web/pkg/models"
)

type collectionType struct {
	model any
	order string
}

// collectionTypes maps admin collection names (see cms.yaml) to their models.
var collectionTypes = map[string]collectionType{
	"posts":        {model: models.Post{}, order: "created_at DESC"},
	"categories":   {model: models.Category{}, order: "sort_order ASC, slug ASC"},
	"pages":        {model: models.Page{}, order: "sort_order ASC, slug ASC"},
	"media":        {model: models.Media{}, order: "created_at DESC"},
	"gallery":      {model: models.GalleryAlbum{}, order: "album_date DESC, created_at DESC"},
	"team-members": {model: models.TeamMember{}, order: "sort_order ASC, name ASC"},
	"sponsors":     {model: models.Sponsor{}, order: "sort_order ASC, name ASC"},
	"contact":      {model: models.ContactSubmission{}, order: "created_at DESC"},
	"users":        {model: models.User{}, order: "created_at ASC"},
}

// NewDocument returns a pointer to a zero document of the named collection.
func NewDocument(collection string) (any, bool) {
	ct, ok := collectionTypes[collection]
	if !ok {
		return nil, false
	}
	return newModel(ct), true
}

func newModel(ct collectionType) any {
	return reflect.New(reflect.TypeOf(ct.model)).Interface()
}

func newSlice(ct collectionType) any {
	return reflect.New(reflect.SliceOf(reflect.TypeOf(ct.model))).Interface()
}

type identified interface {
	GetID() string
	SetID(string)
}

// CollectionRepository is the generic document access used by the admin API.
type CollectionRepository struct{ base }

func (r *CollectionRepository) lookup(collection string) (collectionType, error) {
	ct, ok := collectionTypes[collection]
	if !ok {
		return ct, fmt.Errorf("%w: collection %q", ErrNotFound, collection)
	}
	return ct, nil
}

// List returns a pointer to a slice of documents and the total count.
func (r *CollectionRepository) List(ctx context.Context, collection string, offset, limit int) (any, int64, error) {
	ct, err := r.lookup(collection)
	if err != nil {
		return nil, 0, err
	}
	docs := newSlice(ct)
	var total int64
	err = r.do(ctx, "collections.list", func(tx *gorm.DB) error {
		if err := tx.Model(newModel(ct)).Count(&total).Error; err != nil {
			return err
		}
		q := tx.Order(ct.order)
		if limit > 0 {
			q = q.Offset(offset).Limit(limit)
		}
		return q.Find(docs).Error
	})
	return docs, total, err
}

func (r *CollectionRepository) Get(ctx context.Context, collection, id string) (any, error) {
	if _, err := r.lookup(collection); err != nil {
		return nil, err
	}
	doc, _ := NewDocument(collection)
	err := r.do(ctx, "collections.get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Create stores doc, which must come from NewDocument(collection).
func (r *CollectionRepository) Create(ctx context.Context, collection string, doc any) error {
	if _, err := r.lookup(collection); err != nil {
		return err
	}
	if d, ok := doc.(identified); ok {
		d.SetID("")
	}
	return r.do(ctx, "collections.create", func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(doc).Error
	})
}

// Update overwrites every column of the document with id except its
// creation time.
func (r *CollectionRepository) Update(ctx context.Context, collection, id string, doc any) error {
	if _, err := r.lookup(collection); err != nil {
		return err
	}
	existing, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if d, ok := doc.(identified); ok {
		d.SetID(id)
	}
	return r.do(ctx, "collections.update", func(tx *gorm.DB) error {
		return tx.Model(existing).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(doc).Error
	})
}

func (r *CollectionRepository) Delete(ctx context.Context, collection, id string) error {
	ct, err := r.lookup(collection)
	if err != nil {
		return err
	}
	return r.do(ctx, "collections.delete", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(newModel(ct))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
