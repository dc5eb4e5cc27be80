package noteservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/naudiz/internal/models"
)

const msPerDay = 24 * 60 * 60 * 1000

// sweep partitions trashed notes by age and permanently deletes those past
// the retention window. Ages are whole days derived from millisecond
// timestamps, so a note trashed exactly retention.Days ago is already
// expired while one a millisecond younger is not.
//
// Deletion failures are logged and swallowed: the caller still gets the
// pre-sweep listing, because viewing the trash must never depend on
// housekeeping succeeding.
func (s *Service) sweep(ctx context.Context, ownerID string, trashed []models.Note) []models.Note {
	nowMs := s.now().UnixMilli()

	var expired []string
	for _, n := range trashed {
		if n.DateDeleted == nil {
			// Violates the trash invariant; leave the note alone but say so.
			s.logger.Warn("trashed note missing deletion timestamp", slog.String("note_id", n.ID))
			continue
		}
		ageDays := (nowMs - n.DateDeleted.UnixMilli()) / msPerDay
		switch {
		case ageDays >= int64(s.retention.Days):
			expired = append(expired, n.ID)
		case ageDays >= int64(s.retention.WarnDays):
			if s.warned.mark(n.ID) {
				s.logger.Warn("note approaching permanent deletion",
					slog.String("note_id", n.ID),
					slog.Int64("age_days", ageDays),
					slog.Int("retention_days", s.retention.Days))
			}
		}
	}

	if len(expired) == 0 {
		return trashed
	}

	deleted, err := s.notes.PurgeTrashed(ctx, ownerID, expired)
	if err != nil {
		s.logger.Error("trash sweep failed, returning pre-sweep listing",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()))
		return trashed
	}

	gone := make(map[string]struct{}, len(expired))
	for _, id := range expired {
		gone[id] = struct{}{}
		s.warned.forget(id)
	}
	remaining := make([]models.Note, 0, len(trashed)-len(expired))
	for _, n := range trashed {
		if _, ok := gone[n.ID]; !ok {
			remaining = append(remaining, n)
		}
	}

	s.logger.Info("trash sweep removed expired notes",
		slog.String("owner_id", ownerID),
		slog.Int64("deleted", deleted))
	if s.events != nil {
		s.events.PublishSweep(int(deleted))
	}
	return remaining
}

// warnSet remembers which notes already got their expiry warning so each
// note warns at most once per process lifetime.
type warnSet struct {
	mu  *sync.Mutex
	ids map[string]struct{}
}

func newWarnSet() warnSet {
	return warnSet{mu: &sync.Mutex{}, ids: make(map[string]struct{})}
}

// mark records id and reports whether it was newly added.
func (w warnSet) mark(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.ids[id]; ok {
		return false
	}
	w.ids[id] = struct{}{}
	return true
}

func (w warnSet) forget(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.ids, id)
}
