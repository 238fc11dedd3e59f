package wizard

import (
	"context"
	"encoding/json"
	"time"

	"poolchill/models"
	"poolchill/services/session"
	"poolchill/utils"

	"go.uber.org/zap"
)

// DraftKey is the single storage key an in-progress registration lives under.
const DraftKey = "hostWizardDraft"

// DraftStore persists resumable wizard snapshots. Saving is best-effort: a
// failed write is logged and swallowed, never surfaced to the flow.
type DraftStore struct {
	Store session.Store
	// Freshness bounds how old a snapshot may be before load discards it.
	Freshness time.Duration

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewDraftStore builds a DraftStore with the given freshness window.
func NewDraftStore(store session.Store, freshness time.Duration) *DraftStore {
	if freshness <= 0 {
		freshness = 2 * time.Hour
	}
	return &DraftStore{Store: store, Freshness: freshness, Now: time.Now}
}

func (s *DraftStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Save writes the current draft and step under the fixed key. File collections
// are stripped before serialization; they never survive persistence.
func (s *DraftStore) Save(ctx context.Context, draft *models.FormDraft, step models.Step) {
	snapshot := models.PersistedSnapshot{
		Draft:   draft.Sanitized(),
		Step:    step,
		SavedAt: s.now().UnixMilli(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		utils.GetLogger().Debug("Failed to serialize wizard draft", zap.Error(err))
		return
	}
	if err := s.Store.Set(ctx, DraftKey, string(data)); err != nil {
		utils.GetLogger().Debug("Failed to persist wizard draft", zap.Error(err))
	}
}

// Load returns the stored snapshot, or nil when it is absent, malformed or
// older than the freshness window. Anything unusable is deleted on the way out.
func (s *DraftStore) Load(ctx context.Context) *models.PersistedSnapshot {
	raw, err := s.Store.Get(ctx, DraftKey)
	if err != nil {
		return nil
	}

	var snapshot models.PersistedSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		_ = s.Store.Delete(ctx, DraftKey)
		return nil
	}
	if s.now().UnixMilli()-snapshot.SavedAt > s.Freshness.Milliseconds() {
		_ = s.Store.Delete(ctx, DraftKey)
		return nil
	}

	// Snapshots are written without files; the caller still always gets
	// empty, non-nil collections back.
	snapshot.Draft.Photos = []models.MediaFile{}
	snapshot.Draft.IdentityFiles = []models.MediaFile{}
	return &snapshot
}

// Clear removes the stored snapshot unconditionally.
func (s *DraftStore) Clear(ctx context.Context) {
	_ = s.Store.Delete(ctx, DraftKey)
}
