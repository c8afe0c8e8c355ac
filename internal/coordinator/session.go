package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/campushq/coursereg/internal/kvstore"
	"github.com/campushq/coursereg/internal/models"
)

// DefaultGeneration is the fallback cohort selection used when the store
// holds no value
const DefaultGeneration = "3기"

// Session holds the persisted selections read from the key-value store once
// at initialization. Dependent operations receive it by value instead of
// reading shared storage at arbitrary call sites.
type Session struct {
	// Generation is the selected cohort tag
	Generation string

	// RoleMap maps role names to the users holding them
	RoleMap map[string][]models.User

	// ActiveCourseID is the first entry of the persisted course id list,
	// or 0 when none is stored
	ActiveCourseID int64

	// UserID is the numeric id of the signed-in user, or 0 when absent
	UserID int64

	// Token is the bearer credential, empty when the user is not signed in
	Token string

	// Identity is the per-field user identity used when constructing a
	// join request
	Identity models.User
}

// LoadSession reads the persisted session state from the store. Absent keys
// fall back to defaults: the fallback generation and an empty role mapping.
// Malformed stored values are logged and replaced by their defaults rather
// than failing the load.
func LoadSession(ctx context.Context, store kvstore.Store, fallbackGeneration string) (*Session, error) {
	if fallbackGeneration == "" {
		fallbackGeneration = DefaultGeneration
	}

	session := &Session{
		Generation: fallbackGeneration,
		RoleMap:    map[string][]models.User{},
	}

	generation, err := store.Get(ctx, kvstore.KeySelectedGeneration)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation selection: %w", err)
	}
	if generation != "" {
		session.Generation = generation
	}

	roleMap, err := store.Get(ctx, kvstore.KeyUserRole)
	if err != nil {
		return nil, fmt.Errorf("failed to read user role mapping: %w", err)
	}
	if roleMap != "" {
		if err := json.Unmarshal([]byte(roleMap), &session.RoleMap); err != nil {
			slog.Error("Failed to parse stored user role mapping", "error", err)
			session.RoleMap = map[string][]models.User{}
		}
	}

	session.ActiveCourseID = loadActiveCourseID(ctx, store)

	userID, err := store.Get(ctx, kvstore.KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	if userID != "" {
		session.UserID, _ = strconv.ParseInt(userID, 10, 64)
	}

	session.Token, err = store.Get(ctx, kvstore.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	session.Identity = loadIdentity(ctx, store)

	return session, nil
}

// loadActiveCourseID parses the persisted course id list and returns its
// first element, or 0 when the list is absent or malformed
func loadActiveCourseID(ctx context.Context, store kvstore.Store) int64 {
	stored, err := store.Get(ctx, kvstore.KeyCourseID)
	if err != nil || stored == "" {
		return 0
	}

	var ids []int64
	if err := json.Unmarshal([]byte(stored), &ids); err != nil {
		slog.Error("Failed to parse stored course id list", "error", err)
		return 0
	}
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// loadIdentity reads the per-field identity keys used for join requests.
// These are read independently of the consolidated userId/userRole keys.
func loadIdentity(ctx context.Context, store kvstore.Store) models.User {
	var identity models.User

	if v, err := store.Get(ctx, kvstore.KeyIdentityUserID); err == nil && v != "" {
		identity.UserID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, err := store.Get(ctx, kvstore.KeyIdentityLoginID); err == nil {
		identity.LoginID = v
	}
	if v, err := store.Get(ctx, kvstore.KeyIdentityUserName); err == nil {
		identity.Name = v
	}
	if v, err := store.Get(ctx, kvstore.KeyIdentityRole); err == nil {
		identity.Role = v
	}

	return identity
}
