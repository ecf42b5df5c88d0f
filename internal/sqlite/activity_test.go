package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAssignsID(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry := &activity.Entry{
		ProjectID: "p1",
		ActorID:   "u1",
		Type:      activity.TypeBugReported,
		Summary:   "reported bug #1",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Log(ctx, entry))
	require.NotZero(t, entry.ID)

	second := &activity.Entry{
		ProjectID: "p1",
		ActorID:   "u1",
		Type:      activity.TypeBugEdited,
		Summary:   "edited bug #1",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Log(ctx, second))
	require.Greater(t, second.ID, entry.ID)
}

func TestActivityRepository_ListNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		entry := &activity.Entry{
			ProjectID: "p1",
			ActorID:   "u1",
			Type:      activity.TypeBugReported,
			Summary:   fmt.Sprintf("entry %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Log(ctx, entry))
	}

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "entry 2", entries[0].Summary)
	require.Equal(t, "entry 0", entries[2].Summary)
}

func TestActivityRepository_ListScopedToProject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	for _, projectID := range []string{"p1", "p1", "p2"} {
		entry := &activity.Entry{
			ProjectID: projectID,
			ActorID:   "u1",
			Type:      activity.TypeMemberAdded,
			Summary:   "added a member",
			CreatedAt: time.Now(),
		}
		require.NoError(t, repo.Log(ctx, entry))
	}

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p3"})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestActivityRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	bugID := "b1"
	logged := []*activity.Entry{
		{ProjectID: "p1", ActorID: "u1", BugID: &bugID, Type: activity.TypeBugReported, Summary: "reported"},
		{ProjectID: "p1", ActorID: "u1", BugID: &bugID, Type: activity.TypeBugEdited, Summary: "edited"},
		{ProjectID: "p1", ActorID: "u1", Type: activity.TypeTagCreated, Summary: "tagged"},
	}
	for i, entry := range logged {
		entry.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Log(ctx, entry))
	}

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1", BugID: &bugID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	edited := activity.TypeBugEdited
	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p1", Type: &edited})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "edited", entries[0].Summary)
	require.Equal(t, bugID, *entries[0].BugID)
}

func TestActivityRepository_ListPagination(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := &activity.Entry{
			ProjectID: "p1",
			ActorID:   "u1",
			Type:      activity.TypeBugReported,
			Summary:   fmt.Sprintf("entry %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Log(ctx, entry))
	}

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "p1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "entry 4", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "entry 2", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListOptions{ProjectID: "p1", Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
