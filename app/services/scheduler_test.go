package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

type fakePublicationStore struct {
	exams map[string]*models.FinalExam
}

func newFakePublicationStore() *fakePublicationStore {
	return &fakePublicationStore{exams: make(map[string]*models.FinalExam)}
}

func (f *fakePublicationStore) addExam(name string, publishDate time.Time, published bool) *models.FinalExam {
	exam := &models.FinalExam{
		ID:          uuid.NewString(),
		Name:        name,
		PublishDate: publishDate,
		IsPublished: published,
	}
	f.exams[exam.ID] = exam
	return exam
}

func (f *fakePublicationStore) DuePublications(now time.Time) ([]*models.FinalExam, error) {
	var due []*models.FinalExam
	for _, exam := range f.exams {
		if !exam.IsPublished && !exam.PublishDate.After(now) {
			due = append(due, exam)
		}
	}
	return due, nil
}

func (f *fakePublicationStore) MarkPublished(examID string) error {
	exam, ok := f.exams[examID]
	if !ok {
		return models.NewNotFoundError("Final exam not found")
	}
	exam.IsPublished = true
	return nil
}

func TestTickPublishesDueExams(t *testing.T) {
	store := newFakePublicationStore()
	due := store.addExam("Semester 1 Finals", time.Now().Add(-time.Hour), false)
	future := store.addExam("Semester 2 Finals", time.Now().Add(24*time.Hour), false)

	scheduler := NewPublicationScheduler(store, time.Minute)

	published := scheduler.Tick()
	assert.Equal(t, 1, published)
	assert.True(t, due.IsPublished)
	assert.False(t, future.IsPublished)
}

func TestTickIsIdempotent(t *testing.T) {
	store := newFakePublicationStore()
	store.addExam("Semester 1 Finals", time.Now().Add(-time.Hour), false)

	scheduler := NewPublicationScheduler(store, time.Minute)

	assert.Equal(t, 1, scheduler.Tick())
	assert.Equal(t, 0, scheduler.Tick())
}

// A manual admin publish is a free flip: a far-future exam can be forced on,
// and a following tick leaves it alone.
func TestManualPublishOverridesTimeGating(t *testing.T) {
	store := newFakePublicationStore()
	exam := store.addExam("Next Year Finals", time.Now().AddDate(1, 0, 0), false)

	require.NoError(t, store.MarkPublished(exam.ID))
	assert.True(t, exam.IsPublished)

	scheduler := NewPublicationScheduler(store, time.Minute)
	assert.Equal(t, 0, scheduler.Tick())
	assert.True(t, exam.IsPublished)
}

func TestDefaultInterval(t *testing.T) {
	scheduler := NewPublicationScheduler(newFakePublicationStore(), 0)
	assert.Equal(t, DefaultPublishInterval, scheduler.interval)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newFakePublicationStore()
	store.addExam("Semester 1 Finals", time.Now().Add(-time.Hour), false)

	scheduler := NewPublicationScheduler(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	// The initial tick has already converged the store.
	due, err := store.DuePublications(time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}
