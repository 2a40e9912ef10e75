package repository

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/store"
)

// SettingsRepository holds the single site configuration record.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

type settingsRepository struct {
	store store.Store
	bus   *events.Bus
	mu    sync.Mutex
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(s store.Store, bus *events.Bus) SettingsRepository {
	return &settingsRepository{store: s, bus: bus}
}

// Get loads the settings, seeding and persisting the defaults when the
// slot is absent or unparseable.
func (r *settingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.store.Get(ctx, slotSettings)
	if err != nil {
		if err == store.ErrKeyNotFound {
			return r.seedLocked(ctx)
		}
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return r.seedLocked(ctx)
	}
	return settings, nil
}

func (r *settingsRepository) seedLocked(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if err := r.saveLocked(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	r.mu.Lock()
	err := r.saveLocked(ctx, settings)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntitySettings, Action: events.ActionUpdated})
	return nil
}

func (r *settingsRepository) saveLocked(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := r.store.Set(ctx, slotSettings, raw); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
