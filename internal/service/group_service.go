package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/storage"
)

// ErrNotMember is returned when a user operates on a group they do not
// belong to.
var ErrNotMember = errors.New("not a member of this group")

// joinCodeAttempts bounds the regeneration loop when a freshly generated
// join code collides with an existing group's code.
const joinCodeAttempts = 5

// GroupService implements group creation, join-by-code and membership reads.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the creator as sole member and admin,
// then links the group into the creator's groups array. The two writes are
// separate; a failure between them leaves a dangling reference that
// ListUserGroups heals later.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string) (*models.Group, error) {
	code, err := s.generateJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	group, err := models.NewGroup(name, creatorID, code)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if err := s.store.AddUserGroup(ctx, creatorID, group.ID); err != nil {
		slog.Error("Failed to link group into creator's groups", "group_id", group.ID, "user_id", creatorID, "error", err)
		return nil, fmt.Errorf("failed to link group to user: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "join_code", group.JoinCode, "admin", creatorID)
	return group, nil
}

// JoinByCode finds the group with the given join code and appends the user
// to it. Fails with storage.ErrNotFound for an unknown code and
// models.ErrAlreadyMember if the user already belongs to the group.
func (s *GroupService) JoinByCode(ctx context.Context, code, userID string) (*models.Group, error) {
	group, err := s.store.FindGroupByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := group.Join(userID); err != nil {
		return nil, err
	}

	// Dual write: group.members first, then user.groups. The pair is
	// eventually consistent; the read side reconciles dangling halves.
	if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
		slog.Error("Failed to add member to group", "group_id", group.ID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	if err := s.store.AddUserGroup(ctx, userID, group.ID); err != nil {
		slog.Error("Failed to link group into user's groups", "group_id", group.ID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	slog.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// GetGroupForMember loads a group and its member profiles on behalf of a
// member. Fails with storage.ErrNotFound if the group is gone and
// ErrNotMember if the caller does not belong to it (no partial data is
// returned in that case).
func (s *GroupService) GetGroupForMember(ctx context.Context, groupID, userID string) (*models.Group, []models.Profile, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if !group.IsMember(userID) {
		return nil, nil, ErrNotMember
	}

	profiles := s.memberProfiles(ctx, group)
	return group, profiles, nil
}

// Authorize verifies the group exists and the user is a member. It is the
// cheap membership check used before opening a feed connection.
func (s *GroupService) Authorize(ctx context.Context, groupID, userID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsMember(userID) {
		return ErrNotMember
	}
	return nil
}

// ListUserGroups returns the groups the user belongs to, in join order.
// A group id that no longer loads is pruned from the user's groups array
// (self-healing after a partial dual write) and the rest of the batch
// continues.
func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := make([]*models.Group, 0, len(user.Groups))
	for _, groupID := range user.Groups {
		group, err := s.store.GetGroup(ctx, groupID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Group referenced by user no longer exists, removing", "group_id", groupID, "user_id", userID)
			if err := s.store.RemoveUserGroup(ctx, userID, groupID); err != nil {
				slog.Error("Failed to prune dangling group reference", "group_id", groupID, "error", err)
			}
			continue
		}
		if err != nil {
			slog.Error("Failed to load group, skipping", "group_id", groupID, "error", err)
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// memberProfiles fetches the public profiles of the group's members
// concurrently. A member whose profile fails to load is logged and skipped;
// one missing profile must not block rendering the rest.
func (s *GroupService) memberProfiles(ctx context.Context, group *models.Group) []models.Profile {
	results := make([]*models.Profile, len(group.Members))

	g, ctx := errgroup.WithContext(ctx)
	for i, memberID := range group.Members {
		g.Go(func() error {
			user, err := s.store.GetUser(ctx, memberID)
			if err != nil {
				slog.Warn("Failed to load member profile, skipping", "user_id", memberID, "group_id", group.ID, "error", err)
				return nil
			}
			profile := user.Profile()
			results[i] = &profile
			return nil
		})
	}
	g.Wait() // goroutines never return errors; Wait is a pure join

	profiles := make([]models.Profile, 0, len(results))
	for _, p := range results {
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	return profiles
}

// generateJoinCode produces a random 10-digit code and retries until it does
// not collide with an existing group's code.
func (s *GroupService) generateJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := randomJoinCode()
		if err != nil {
			return "", err
		}

		_, err = s.store.FindGroupByJoinCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		slog.Warn("Join code collision, regenerating", "attempt", attempt+1)
	}
	return "", fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeAttempts)
}

// randomJoinCode returns a uniformly random code in [1000000000, 9999999999]:
// always exactly 10 digits, never leading-zero ambiguous.
func randomJoinCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1_000_000_000), nil
}
