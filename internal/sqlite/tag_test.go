package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/stretchr/testify/require"
)

func testTag(id, projectID, creatorID, title string) *tag.Tag {
	now := time.Now()
	return &tag.Tag{
		ID:              id,
		ProjectID:       projectID,
		Title:           title,
		TextColor:       "#000000",
		BackgroundColor: "#ffffff",
		BorderColor:     "#cccccc",
		CreatorID:       creatorID,
		CreatedAt:       now,
		ModifiedAt:      now,
	}
}

func TestTagRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")

	repo := NewTagRepository(db)
	tg := testTag("t1", "p1", "u1", "regression")
	require.NoError(t, repo.Create(ctx, tg))

	loaded, err := repo.Get(ctx, "p1", "t1")
	require.NoError(t, err)
	require.Equal(t, "regression", loaded.Title)
	require.Equal(t, "#000000", loaded.TextColor)
	require.Equal(t, "u1", loaded.CreatorID)
}

func TestTagRepository_GetScopedToProject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")
	insertProject(t, db, "p2", "u1")

	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(ctx, testTag("t1", "p1", "u1", "regression")))

	_, err := repo.Get(ctx, "p2", "t1")
	require.Equal(t, repository.ErrNotFound, err, "a tag is invisible outside its project")
}

func TestTagRepository_DuplicateDefinition(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")
	insertProject(t, db, "p2", "u1")

	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(ctx, testTag("t1", "p1", "u1", "regression")))

	dup := testTag("t2", "p1", "u1", "regression")
	require.Equal(t, repository.ErrConflict, repo.Create(ctx, dup))

	// Same title but different colors is a distinct definition
	recolored := testTag("t3", "p1", "u1", "regression")
	recolored.BackgroundColor = "#ff0000"
	require.NoError(t, repo.Create(ctx, recolored))

	// Same definition in another project is fine
	elsewhere := testTag("t4", "p2", "u1", "regression")
	require.NoError(t, repo.Create(ctx, elsewhere))
}

func TestTagRepository_ListByProject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")

	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(ctx, testTag("t1", "p1", "u1", "ui")))
	require.NoError(t, repo.Create(ctx, testTag("t2", "p1", "u1", "backend")))

	tags, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "backend", tags[0].Title, "tags ordered by title")
	require.Equal(t, "ui", tags[1].Title)
}

func TestTagRepository_DeleteCascadesMarks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")
	insertBug(t, db, "b1", "p1", "u1", 1)

	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(ctx, testTag("t1", "p1", "u1", "regression")))
	require.NoError(t, repo.CreateMark(ctx, &tag.Mark{ID: "mk1", BugID: "b1", TagID: "t1", CreatorID: "u1", CreatedAt: time.Now()}))

	require.NoError(t, repo.Delete(ctx, "t1"))

	require.Equal(t, 0, countRows(t, db, "tags", "id = ?", "t1"))
	require.Equal(t, 0, countRows(t, db, "marks", "tag_id = ?", "t1"))
	require.Equal(t, 1, countRows(t, db, "bugs", "id = ?", "b1"), "bugs must survive tag deletion")

	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "t1"))
}

func TestTagRepository_Marks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")
	insertBug(t, db, "b1", "p1", "u1", 1)
	insertBug(t, db, "b2", "p1", "u1", 2)

	repo := NewTagRepository(db)
	require.NoError(t, repo.Create(ctx, testTag("t1", "p1", "u1", "ui")))
	require.NoError(t, repo.Create(ctx, testTag("t2", "p1", "u1", "backend")))

	require.NoError(t, repo.CreateMark(ctx, &tag.Mark{ID: "mk1", BugID: "b1", TagID: "t1", CreatorID: "u1", CreatedAt: time.Now()}))
	require.NoError(t, repo.CreateMark(ctx, &tag.Mark{ID: "mk2", BugID: "b1", TagID: "t2", CreatorID: "u1", CreatedAt: time.Now()}))
	require.NoError(t, repo.CreateMark(ctx, &tag.Mark{ID: "mk3", BugID: "b2", TagID: "t1", CreatorID: "u1", CreatedAt: time.Now()}))

	dup := &tag.Mark{ID: "mk4", BugID: "b1", TagID: "t1", CreatorID: "u1", CreatedAt: time.Now()}
	require.Equal(t, repository.ErrConflict, repo.CreateMark(ctx, dup))

	orphan := &tag.Mark{ID: "mk5", BugID: "b1", TagID: "missing", CreatorID: "u1", CreatedAt: time.Now()}
	require.Equal(t, repository.ErrForeignKeyViolation, repo.CreateMark(ctx, orphan))

	marks, err := repo.ListMarksByBug(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, marks, 2)
	require.Equal(t, "backend", marks[0].Title, "carried tags ordered by title")

	require.NoError(t, repo.DeleteMark(ctx, "b1", "t1"))
	marks, err = repo.ListMarksByBug(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, marks, 1)

	require.Equal(t, repository.ErrNotFound, repo.DeleteMark(ctx, "b1", "t1"))
}
