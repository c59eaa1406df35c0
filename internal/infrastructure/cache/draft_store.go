package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DraftTTL is how long an unfinished onboarding draft is retained.
const DraftTTL = 7 * 24 * time.Hour

// OnboardingDraft holds partial signup progress so a user who abandons
// the flow can resume where they left off.
type OnboardingDraft struct {
	StoreName    string    `json:"store_name,omitempty"`
	StoreAddress string    `json:"store_address,omitempty"`
	StorePhone   string    `json:"store_phone,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	Step         int       `json:"step"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DraftStore persists onboarding drafts per user in Redis.
type DraftStore struct {
	client *redis.Client
}

// NewDraftStore creates a draft store backed by the given client.
func NewDraftStore(client *redis.Client) *DraftStore {
	return &DraftStore{client: client}
}

func draftKey(userID uuid.UUID) string {
	return "onboarding_draft_" + userID.String()
}

// Save stores the draft, stamping the update time.
func (s *DraftStore) Save(ctx context.Context, userID uuid.UUID, draft *OnboardingDraft) error {
	if s == nil || s.client == nil {
		return nil
	}
	draft.UpdatedAt = time.Now()
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(userID), payload, DraftTTL).Err()
}

// Get returns the user's draft, or nil when none exists or the stored
// payload cannot be decoded.
func (s *DraftStore) Get(ctx context.Context, userID uuid.UUID) (*OnboardingDraft, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	payload, err := s.client.Get(ctx, draftKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft OnboardingDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		_ = s.client.Del(ctx, draftKey(userID)).Err()
		return nil, nil
	}
	return &draft, nil
}

// Delete removes the draft once onboarding completes.
func (s *DraftStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, draftKey(userID)).Err()
}
