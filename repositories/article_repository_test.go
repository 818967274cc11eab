package repositories

import (
	"context"
	"testing"

	"board-cms/dbctx"
	"board-cms/models"
	"board-cms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newArticle(t *testing.T, id, boardID string) *models.Article {
	t.Helper()
	a, err := models.NewRegularArticle(models.NewArticleParams{
		ID: id, Title: "title " + id, Content: "content " + id, WriterID: "u1", BoardID: boardID,
	})
	require.NoError(t, err)
	return a
}

func usageOf(t *testing.T, db *gorm.DB, keywordID string) int {
	t.Helper()
	var k models.Keyword
	require.NoError(t, db.Where("id = ?", keywordID).Take(&k).Error)
	return k.UsageCount
}

func TestArticleRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	board := testutil.SeedBoard(t, db, "general")
	k1 := testutil.SeedKeyword(t, db, "go", nil)
	k2 := testutil.SeedKeyword(t, db, "sql", nil)
	repo := NewArticleRepository(db)
	dbc := dbctx.Context{Ctx: context.Background()}

	a := newArticle(t, "a1", board.ID)
	a.AddImage("img1", "https://cdn.example.com/1.png")
	a.AddImage("img2", "https://cdn.example.com/2.png")
	a.AddKeyword(k1)
	a.AddKeyword(k2)

	applied, err := repo.Create(dbc, a)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.Empty(t, a.KeywordChanges())

	got, err := repo.GetByID(dbc, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "img1", got.Images[0].ImageID)
	assert.Equal(t, 1, got.Images[0].Sequence)
	require.NotNil(t, got.CoverImageURL)
	assert.Equal(t, "https://cdn.example.com/1.png", *got.CoverImageURL)
	assert.ElementsMatch(t, []string{k1.ID, k2.ID}, got.KeywordIDs())
	assert.Equal(t, 2, got.ImageSequence)
}

func TestArticleRepository_GetByIDMissing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewArticleRepository(db)

	_, err := repo.GetByID(dbctx.Context{}, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestArticleRepository_GetByIDForUpdateNeedsTx(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewArticleRepository(db)

	_, err := repo.GetByIDForUpdate(dbctx.Context{}, "a1")
	assert.Error(t, err)
}

func TestArticleRepository_SavePersistsCollections(t *testing.T) {
	db := testutil.NewDB(t)
	board := testutil.SeedBoard(t, db, "general")
	k1 := testutil.SeedKeyword(t, db, "go", nil)
	k2 := testutil.SeedKeyword(t, db, "sql", nil)
	repo := NewArticleRepository(db)
	tx := NewTxRunner(db)
	ctx := context.Background()

	a := newArticle(t, "a1", board.ID)
	a.AddImage("img1", "https://cdn.example.com/1.png")
	a.AddImage("img2", "https://cdn.example.com/2.png")
	a.AddKeyword(k1)
	_, err := repo.Create(dbctx.Context{Ctx: ctx}, a)
	require.NoError(t, err)

	var applied []models.KeywordChange
	err = tx.InTx(ctx, func(dbc dbctx.Context) error {
		locked, err := repo.GetByIDForUpdate(dbc, "a1")
		if err != nil {
			return err
		}
		locked.RemoveImage(locked.FindImage("img1"))
		locked.AddImage("img3", "https://cdn.example.com/3.png")
		locked.ReplaceKeywords([]*models.Keyword{k2})
		locked.UpdateContent("renamed", "")
		applied, err = repo.Save(dbc, locked)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []models.KeywordChange{
		{KeywordID: k1.ID, Added: false},
		{KeywordID: k2.ID, Added: true},
	}, applied)

	got, err := repo.GetByID(dbctx.Context{Ctx: ctx}, "a1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "img2", got.Images[0].ImageID)
	assert.Equal(t, "img3", got.Images[1].ImageID)
	assert.Equal(t, 3, got.Images[1].Sequence)
	require.NotNil(t, got.CoverImageURL)
	assert.Equal(t, "https://cdn.example.com/2.png", *got.CoverImageURL)
	assert.Equal(t, []string{k2.ID}, got.KeywordIDs())
}

func TestArticleRepository_MappingsKeepInMemoryCreatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	board := testutil.SeedBoard(t, db, "general")
	k1 := testutil.SeedKeyword(t, db, "go", nil)
	k2 := testutil.SeedKeyword(t, db, "sql", nil)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	a := newArticle(t, "a1", board.ID)
	a.AddKeyword(k1)
	a.AddKeyword(k2)
	want := map[string]models.KeywordMapping{}
	for _, m := range a.KeywordMappings {
		want[m.KeywordID] = m
	}
	_, err := repo.Create(dbctx.Context{Ctx: ctx}, a)
	require.NoError(t, err)

	var stored []models.KeywordMapping
	require.NoError(t, db.Where("article_id = ?", "a1").Find(&stored).Error)
	require.Len(t, stored, 2)
	for _, m := range stored {
		assert.True(t, want[m.KeywordID].CreatedAt.Equal(m.CreatedAt), m.KeywordID)
	}

	got, err := repo.GetByID(dbctx.Context{Ctx: ctx}, "a1")
	require.NoError(t, err)
	assert.ElementsMatch(t, a.KeywordIDs(), got.KeywordIDs())
}

func TestArticleRepository_SaveRejectsStaleVersion(t *testing.T) {
	db := testutil.NewDB(t)
	board := testutil.SeedBoard(t, db, "general")
	repo := NewArticleRepository(db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	_, err := repo.Create(dbc, newArticle(t, "a1", board.ID))
	require.NoError(t, err)

	first, err := repo.GetByID(dbc, "a1")
	require.NoError(t, err)
	stale, err := repo.GetByID(dbc, "a1")
	require.NoError(t, err)

	first.UpdateContent("first", "")
	_, err = repo.Save(dbc, first)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Version)

	stale.UpdateContent("second", "")
	_, err = repo.Save(dbc, stale)
	assert.ErrorIs(t, err, models.ErrConflict)

	got, err := repo.GetByID(dbc, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestArticleRepository_ReplayedKeywordChangesDriveUsage(t *testing.T) {
	db := testutil.NewDB(t)
	board := testutil.SeedBoard(t, db, "general")
	k := testutil.SeedKeyword(t, db, "go", nil)
	repo := NewArticleRepository(db)
	keywords := NewKeywordRepository(db)
	tx := NewTxRunner(db)
	ctx := context.Background()

	a := newArticle(t, "a1", board.ID)
	a.AddKeyword(k)
	applied, err := repo.Create(dbctx.Context{Ctx: ctx}, a)
	require.NoError(t, err)
	require.NoError(t, keywords.ApplyUsageChanges(dbctx.Context{Ctx: ctx}, applied))
	assert.Equal(t, 1, usageOf(t, db, k.ID))

	// Re-adding through a fresh load is a no-op at the aggregate level.
	err = tx.InTx(ctx, func(dbc dbctx.Context) error {
		locked, err := repo.GetByIDForUpdate(dbc, "a1")
		if err != nil {
			return err
		}
		fresh, err := keywords.GetByID(dbc, k.ID)
		if err != nil {
			return err
		}
		assert.False(t, locked.AddKeyword(fresh))
		locked.ReplaceKeywords([]*models.Keyword{fresh})
		applied, err := repo.Save(dbc, locked)
		if err != nil {
			return err
		}
		return keywords.ApplyUsageChanges(dbc, applied)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, usageOf(t, db, k.ID))
}
