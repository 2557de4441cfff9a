package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"alumni-chat/apperrors"
	"alumni-chat/kvstore"
	"alumni-chat/models"
)

//go:generate mockgen -destination=mocks/mock_profile_directory.go -package=mocks alumni-chat/services ProfileDirectory

const allProfilesKey = "all_user_profiles"

// ProfileDirectory resolves user ids to display attributes. GetProfile returns
// apperrors.ErrProfileNotFound for unknown users; GetProfiles leaves them out
// of the result.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	GetProfiles(ctx context.Context, userIDs []int64) (map[int64]models.Profile, error)
}

// KVProfileDirectory keeps every profile in one JSON array under a single key.
type KVProfileDirectory struct {
	kv     kvstore.Store
	locks  *keyLocker
	logger *slog.Logger
}

func NewKVProfileDirectory(kv kvstore.Store, logger *slog.Logger) *KVProfileDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &KVProfileDirectory{
		kv:     kv,
		locks:  newKeyLocker(),
		logger: logger.With("component", "profiles"),
	}
}

func (d *KVProfileDirectory) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	profiles, err := d.ListProfiles(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	for _, p := range profiles {
		if p.ID == userID {
			return p, nil
		}
	}
	return models.Profile{}, apperrors.ErrProfileNotFound
}

// GetProfiles resolves several users with a single read of the directory.
func (d *KVProfileDirectory) GetProfiles(ctx context.Context, userIDs []int64) (map[int64]models.Profile, error) {
	profiles, err := d.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]models.Profile, len(userIDs))
	for _, p := range profiles {
		if slices.Contains(userIDs, p.ID) {
			found[p.ID] = p
		}
	}
	return found, nil
}

func (d *KVProfileDirectory) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if _, err := loadJSON(ctx, d.kv, allProfilesKey, &profiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, nil
}

// PutProfile inserts the profile or replaces the one with the same id.
func (d *KVProfileDirectory) PutProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.ID <= 0 || profile.Name == "" {
		return models.Profile{}, apperrors.ErrInvalidProfile
	}

	unlock := d.locks.Lock(allProfilesKey)
	defer unlock()

	profiles, err := d.ListProfiles(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	idx := slices.IndexFunc(profiles, func(p models.Profile) bool { return p.ID == profile.ID })
	if idx >= 0 {
		profiles[idx] = profile
	} else {
		profiles = append(profiles, profile)
	}
	if err := saveJSON(ctx, d.kv, allProfilesKey, profiles); err != nil {
		return models.Profile{}, err
	}

	d.logger.Debug("profile saved", "user_id", profile.ID, "created", idx < 0)
	return profile, nil
}
