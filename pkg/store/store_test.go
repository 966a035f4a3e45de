package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
	"feuerwehr-web/pkg/store/storetest"
)

func ptr[T any](v T) *T { return &v }

func TestPostsPublishedOnly(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()
	yesterday := time.Now().Add(-24 * time.Hour)

	cat, err := s.Categories.EnsureSlug(ctx, "einsaetze")
	require.NoError(t, err)
	assert.Equal(t, "Einsaetze", cat.Label.Get(i18n.DE, ""))
	again, err := s.Categories.EnsureSlug(ctx, "einsaetze")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)
	other, err := s.Categories.EnsureSlug(ctx, "uebungen")
	require.NoError(t, err)
	assert.NotEqual(t, cat.ID, other.ID)
	assert.Equal(t, "uebungen", other.Slug)
	_, err = s.Categories.EnsureSlug(ctx, "")
	assert.Error(t, err)

	require.NoError(t, s.DB.Create(&models.Post{
		Title: i18n.Text{i18n.DE: "Brand"}, Slug: "brand", Status: models.StatusPublished,
		PublishedAt: &yesterday, CategoryID: &cat.ID,
	}).Error)
	require.NoError(t, s.DB.Create(&models.Post{
		Title: i18n.Text{i18n.DE: "Entwurf"}, Slug: "entwurf", Status: models.StatusDraft,
	}).Error)
	require.NoError(t, s.DB.Create(&models.Post{
		Title: i18n.Text{i18n.DE: "Geplant"}, Slug: "geplant", Status: models.StatusPublished,
		PublishedAt: ptr(time.Now().Add(48 * time.Hour)),
	}).Error)

	posts, total, err := s.Posts.ListPublished(ctx, store.PostListOptions{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "brand", posts[0].Slug)
	require.NotNil(t, posts[0].Category)
	assert.Equal(t, "einsaetze", posts[0].Category.Slug)

	_, err = s.Posts.BySlug(ctx, "entwurf")
	assert.ErrorIs(t, err, store.ErrNotFound)

	filtered, total, err := s.Posts.ListPublished(ctx, store.PostListOptions{CategoryID: "nope"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, filtered)
}

func TestPostUpsertBySlug(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()

	first, err := s.Posts.UpsertBySlug(ctx, "uebung", func(p *models.Post) {
		p.Title = i18n.Text{i18n.DE: "Übung"}
		p.Status = models.StatusPublished
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.Posts.UpsertBySlug(ctx, "uebung", func(p *models.Post) {
		if p.Title == nil {
			p.Title = i18n.Text{}
		}
		p.Title[i18n.EN] = "Drill"
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.Posts.BySlug(ctx, "uebung")
	require.NoError(t, err)
	assert.Equal(t, "Übung", got.Title.Get(i18n.DE, ""))
	assert.Equal(t, "Drill", got.Title.Get(i18n.EN, ""))
}

func TestUsersCaseInsensitive(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &models.User{Email: "Max@Example.org", PasswordHash: "x", Role: models.RoleUser}))

	u, err := s.Users.FindByEmail(ctx, "MAX@example.ORG")
	require.NoError(t, err)
	assert.Equal(t, "max@example.org", u.Email)

	err = s.Users.Create(ctx, &models.User{Email: "max@example.org", PasswordHash: "y"})
	assert.ErrorIs(t, err, store.ErrConflict)

	n, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGlobalsPutGet(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()

	_, err := s.Globals.Get(ctx, models.GlobalSiteSettings)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Globals.Put(ctx, models.GlobalSiteSettings, []byte(`{"siteName":"A"}`)))
	require.NoError(t, s.Globals.Put(ctx, models.GlobalSiteSettings, []byte(`{"siteName":"B"}`)))

	data, err := s.Globals.Get(ctx, models.GlobalSiteSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"siteName":"B"}`, string(data))
}

func TestCollectionsCRUD(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()

	doc, ok := store.NewDocument("sponsors")
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sparkasse","active":true,"order":2}`), doc))
	require.NoError(t, s.Collections.Create(ctx, "sponsors", doc))
	id := doc.(*models.Sponsor).ID
	require.NotEmpty(t, id)

	upd, _ := store.NewDocument("sponsors")
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sparkasse Nord","active":false,"order":0}`), upd))
	require.NoError(t, s.Collections.Update(ctx, "sponsors", id, upd))

	got, err := s.Collections.Get(ctx, "sponsors", id)
	require.NoError(t, err)
	sp := got.(*models.Sponsor)
	assert.Equal(t, "Sparkasse Nord", sp.Name)
	assert.False(t, sp.Active, "zero values are written too")

	list, total, err := s.Collections.List(ctx, "sponsors", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, *list.(*[]models.Sponsor), 1)

	require.NoError(t, s.Collections.Delete(ctx, "sponsors", id))
	assert.ErrorIs(t, s.Collections.Delete(ctx, "sponsors", id), store.ErrNotFound)

	_, _, err = s.Collections.List(ctx, "unknown", 0, 10)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Collections.Update(ctx, "sponsors", "missing", upd), store.ErrNotFound)
}

func TestContactsAndMedia(t *testing.T) {
	s := storetest.NewStore(t)
	ctx := context.Background()

	sub := &models.ContactSubmission{Name: "A", Email: "a@b.co", Message: "Hallo", Locale: i18n.DE}
	require.NoError(t, s.Contacts.Create(ctx, sub))
	assert.NotEmpty(t, sub.ID)
	require.NoError(t, s.Contacts.SetStatus(ctx, sub.ID, models.SubmissionDone))
	assert.ErrorIs(t, s.Contacts.SetStatus(ctx, "missing", models.SubmissionDone), store.ErrNotFound)

	n, err := s.Contacts.CountByStatus(ctx, models.SubmissionDone)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	m := &models.Media{Filename: "a.jpg", URL: "/media/a.jpg"}
	require.NoError(t, s.Media.Create(ctx, m))
	byID, err := s.Media.ByIDs(ctx, []string{m.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, "/media/a.jpg", byID[m.ID].URL)
}
