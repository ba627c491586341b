package services

import (
	"context"
	"log"
	"time"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
)

// PublicationStore is the persistence surface the scheduler polls.
// Implemented by database.ExamStore.
type PublicationStore interface {
	DuePublications(now time.Time) ([]*models.FinalExam, error)
	MarkPublished(examID string) error
}

// PublicationScheduler is the background task that flips final exams to
// published once their publish date has passed. Failed persistence is only
// logged; the next tick picks the exam up again. A manual admin toggle may
// race a tick on the same exam, which is accepted (both converge on
// published once the date is past).
type PublicationScheduler struct {
	store    PublicationStore
	interval time.Duration
	now      func() time.Time
}

// DefaultPublishInterval is how often the scheduler polls for due exams.
const DefaultPublishInterval = 60 * time.Second

func NewPublicationScheduler(store PublicationStore, interval time.Duration) *PublicationScheduler {
	if interval <= 0 {
		interval = DefaultPublishInterval
	}
	return &PublicationScheduler{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Run polls until the context is cancelled. The tick in flight finishes
// before Run returns, so shutdown never leaves a half-processed batch.
func (s *PublicationScheduler) Run(ctx context.Context) {
	log.Printf("Publication scheduler started (interval %s)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			log.Println("Publication scheduler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick publishes every exam whose publish date has passed and returns how
// many were flipped. A tick over an already-consistent table is a no-op.
func (s *PublicationScheduler) Tick() int {
	now := s.now()
	exams, err := s.store.DuePublications(now)
	if err != nil {
		log.Printf("Error in publishing scheduler: %v", err)
		return 0
	}

	published := 0
	for _, exam := range exams {
		if err := s.store.MarkPublished(exam.ID); err != nil {
			log.Printf("Failed to publish exam %s: %v", exam.Name, err)
			continue
		}
		published++
		log.Printf("Auto-published exam: %s at %s", exam.Name, now.Format(time.RFC3339))
	}
	return published
}
