package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/stretchr/testify/require"
)

func testUser(id string) *user.User {
	now := time.Now()
	return &user.User{
		ID:         id,
		Subject:    "subject-" + id,
		PublicID:   "PUB-" + id,
		Name:       "User " + id,
		Email:      id + "@example.com",
		Locale:     "en",
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestUserRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	u := testUser("u1")
	require.NoError(t, repo.Create(ctx, u))

	loaded, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, u.Subject, loaded.Subject)
	require.Equal(t, u.PublicID, loaded.PublicID)
	require.Equal(t, u.Name, loaded.Name)
	require.Equal(t, u.Email, loaded.Email)

	bySubject, err := repo.GetBySubject(ctx, "subject-u1")
	require.NoError(t, err)
	require.Equal(t, "u1", bySubject.ID)

	byPublic, err := repo.GetByPublicID(ctx, "PUB-u1")
	require.NoError(t, err)
	require.Equal(t, "u1", byPublic.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	_, err := repo.Get(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)

	_, err = repo.GetBySubject(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestUserRepository_DuplicateSubject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	require.NoError(t, repo.Create(ctx, testUser("u1")))

	dup := testUser("u2")
	dup.Subject = "subject-u1"
	require.Equal(t, repository.ErrConflict, repo.Create(ctx, dup))
}

func TestUserRepository_DuplicatePublicID(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	require.NoError(t, repo.Create(ctx, testUser("u1")))

	dup := testUser("u2")
	dup.PublicID = "PUB-u1"
	require.Equal(t, repository.ErrConflict, repo.Create(ctx, dup))
}

func TestUserRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	u := testUser("u1")
	require.NoError(t, repo.Create(ctx, u))

	u.Name = "Renamed"
	u.Picture = "https://example.com/p.png"
	u.ModifiedAt = time.Now()
	require.NoError(t, repo.Update(ctx, u))

	loaded, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Name)
	require.Equal(t, "https://example.com/p.png", loaded.Picture)

	u.ID = "missing"
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, u))
}

func TestUserRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	names := map[string]string{
		"u1": "Ada Lovelace",
		"u2": "Alan Turing",
		"u3": "Grace Hopper",
	}
	for id, name := range names {
		u := testUser(id)
		u.Name = name
		require.NoError(t, repo.Create(ctx, u))
	}

	profiles, err := repo.Search(ctx, []string{"a"}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	require.Equal(t, "Ada Lovelace", profiles[0].Name, "results ordered by name")

	profiles, err = repo.Search(ctx, []string{"ada", "love"}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1, "every word must match")
	require.Equal(t, "PUB-u1", profiles[0].PublicID)

	profiles, err = repo.Search(ctx, []string{"turing"}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1, "matching is case-insensitive")
}

func TestUserRepository_SearchEscapesWildcards(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	u := testUser("u1")
	u.Name = "100% Match"
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, testUser("u2")))

	profiles, err := repo.Search(ctx, []string{"%"}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1, "%% must match literally, not as a wildcard")
	require.Equal(t, "100% Match", profiles[0].Name)

	profiles, err = repo.Search(ctx, []string{"_"}, 10)
	require.NoError(t, err)
	require.Empty(t, profiles, "_ must match literally, not as a wildcard")
}

func TestUserRepository_SearchLimit(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repo.Create(ctx, testUser(id)))
	}

	profiles, err := repo.Search(ctx, []string{"user"}, 2)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
}

func TestUserRepository_CountMemberships(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewUserRepository(db)
	require.NoError(t, repo.Create(ctx, testUser("u1")))
	insertProject(t, db, "p1", "u1")
	insertProject(t, db, "p2", "u1")
	insertMembership(t, db, "m1", "u1", "p1", "ADM")
	insertMembership(t, db, "m2", "u1", "p2", "CON")

	count, err := repo.CountMemberships(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = repo.CountMemberships(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
