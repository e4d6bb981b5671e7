package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/meeting"
)

// testRepo connects to the database named by DATABASE_URL, or skips. These
// are integration tests; they need a real PostgreSQL instance.
func testRepo(t *testing.T) *MeetingRepository {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping store integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := ConnectURL(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	return NewMeetingRepository(pool, logging.NewNopLogger(), nil)
}

func TestMeetingRepository_SaveGetRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	m := meeting.New("Weekly Ops", meeting.TypeTeam)
	m.StartTime = "10:00"
	m.Location = "Room 4"
	m.Attendees = []meeting.Attendee{{ID: "a-1", Name: "Sarah", Role: "Chair"}}
	m.TranscriptText = "we discussed the quarterly sales figures"
	item, err := meeting.NewActionItem("Team to send the report by Friday", "", "Friday")
	require.NoError(t, err)
	m.Actions = []meeting.ActionItem{item}

	require.NoError(t, repo.Save(ctx, m))
	t.Cleanup(func() { _ = repo.Delete(ctx, m.ID) })

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Title, got.Title)
	assert.Equal(t, m.Type, got.Type)
	assert.Equal(t, m.StartTime, got.StartTime)
	assert.Equal(t, m.Attendees, got.Attendees)
	assert.Equal(t, m.TranscriptText, got.TranscriptText)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, item.Action, got.Actions[0].Action)
}

func TestMeetingRepository_SaveUpserts(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	m := meeting.New("Draft title", meeting.TypeOneOnOne)
	require.NoError(t, repo.Save(ctx, m))
	t.Cleanup(func() { _ = repo.Delete(ctx, m.ID) })

	m.Title = "Final title"
	m.Status = meeting.StatusCompleted
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final title", got.Title)
	assert.Equal(t, meeting.StatusCompleted, got.Status)
}

func TestMeetingRepository_GetNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, mnerrors.IsNotFound(err))
}

func TestMeetingRepository_DeleteNotFound(t *testing.T) {
	repo := testRepo(t)

	err := repo.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, mnerrors.IsNotFound(err))
}

func TestMeetingRepository_List(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	m := meeting.New("Listed meeting", meeting.TypeTeam)
	require.NoError(t, repo.Save(ctx, m))
	t.Cleanup(func() { _ = repo.Delete(ctx, m.ID) })

	summaries, err := repo.List(ctx)
	require.NoError(t, err)

	found := false
	for _, s := range summaries {
		if s.ID == m.ID {
			found = true
			assert.Equal(t, "Listed meeting", s.Title)
			assert.Equal(t, meeting.TypeTeam, s.Type)
			assert.Equal(t, 0, s.ActionCount)
		}
	}
	assert.True(t, found, "saved meeting missing from list")
}

func TestJSONList_NilEncodesEmptyArray(t *testing.T) {
	// A meeting saved before compilation has no actions; the jsonb column
	// must still hold an array so list queries can take its length.
	b, err := jsonList[meeting.ActionItem](nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = jsonList([]meeting.Attendee{{Name: "Sarah", Role: "Chair"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Sarah"`)
}

func TestMeetingRepository_SaveRejectsInvalid(t *testing.T) {
	repo := NewMeetingRepository(nil, nil, nil)

	err := repo.Save(context.Background(), &meeting.Meeting{ID: "", Type: meeting.TypeTeam})
	assert.True(t, mnerrors.IsValidation(err))

	err = repo.Save(context.Background(), &meeting.Meeting{ID: "x", Type: "nonsense"})
	assert.True(t, mnerrors.IsValidation(err))
}
