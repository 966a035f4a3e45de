package store

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store struct {
	DB *gorm.DB

	Posts       PostRepository
	Categories  CategoryRepository
	Pages       PageRepository
	Media       MediaRepository
	Albums      AlbumRepository
	Team        TeamRepository
	Sponsors    SponsorRepository
	Contacts    ContactRepository
	Users       UserRepository
	Globals     GlobalRepository
	Collections *CollectionRepository
}

func New(db *gorm.DB, policy RetryPolicy) *Store {
	b := base{db: db, policy: policy}
	return &Store{
		DB:          db,
		Posts:       &postRepository{b},
		Categories:  &categoryRepository{b},
		Pages:       &pageRepository{b},
		Media:       &mediaRepository{b},
		Albums:      &albumRepository{b},
		Team:        &teamRepository{b},
		Sponsors:    &sponsorRepository{b},
		Contacts:    &contactRepository{b},
		Users:       &userRepository{b},
		Globals:     &globalRepository{b},
		Collections: &CollectionRepository{b},
	}
}

type base struct {
	db     *gorm.DB
	policy RetryPolicy
}

// do runs fn against a context-bound handle under the retry policy and maps
// errors to the package sentinels.
func (b base) do(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := Do(ctx, b.policy, op, func(ctx context.Context) error {
		return fn(b.db.WithContext(ctx))
	})
	return translate(err)
}
