package cmd

import (
	"context"
	"fmt"
	"sort"
	"sync"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/store"
)

// fakeStore is an in-memory MeetingStore for command tests.
type fakeStore struct {
	mu       sync.Mutex
	meetings map[string]*meeting.Meeting
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{meetings: map[string]*meeting.Meeting{}}
}

func (f *fakeStore) Save(ctx context.Context, m *meeting.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *m
	f.meetings[m.ID] = &clone
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return nil, fmt.Errorf("meeting %s: %w", id, mnerrors.ErrNotFound)
	}
	clone := *m
	return &clone, nil
}

func (f *fakeStore) List(ctx context.Context) ([]store.MeetingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []store.MeetingSummary
	for _, m := range f.meetings {
		summaries = append(summaries, store.MeetingSummary{
			ID:          m.ID,
			Title:       m.Title,
			Type:        m.Type,
			Date:        m.Date,
			Status:      string(m.Status),
			ActionCount: len(m.Actions),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetings[id]; !ok {
		return fmt.Errorf("meeting %s: %w", id, mnerrors.ErrNotFound)
	}
	delete(f.meetings, id)
	return nil
}
