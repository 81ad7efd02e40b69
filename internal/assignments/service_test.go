package assignments

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

type memoryAssignmentRepo struct {
	assignments map[uuid.UUID]UserRole
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[uuid.UUID]UserRole)}
}

func (r *memoryAssignmentRepo) Assign(ctx context.Context, userID, roleID uuid.UUID) (UserRole, error) {
	for _, ur := range r.assignments {
		if ur.UserID == userID && ur.RoleID == roleID {
			return UserRole{}, fmt.Errorf("user already holds role: %w", httpx.ErrConflict)
		}
	}
	ur := UserRole{ID: uuid.New(), UserID: userID, RoleID: roleID}
	r.assignments[ur.ID] = ur
	return ur, nil
}

func (r *memoryAssignmentRepo) Unassign(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	for id, ur := range r.assignments {
		if ur.UserID == userID && ur.RoleID == roleID {
			delete(r.assignments, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAssignmentRepo) RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, ur := range r.assignments {
		if ur.UserID == userID {
			out = append(out, ur.RoleID)
		}
	}
	return out, nil
}

func (r *memoryAssignmentRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]UserRole, error) {
	var out []UserRole
	for _, ur := range r.assignments {
		if ur.UserID == userID {
			out = append(out, ur)
		}
	}
	return out, nil
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestAssignDuplicateConflicts(t *testing.T) {
	svc := NewService(newMemoryAssignmentRepo(), nil)
	ctx := context.Background()
	actor, userID, roleID := uuid.New(), uuid.New(), uuid.New()

	_, err := svc.Assign(ctx, actor, userID, roleID)
	require.NoError(t, err)

	_, err = svc.Assign(ctx, actor, userID, roleID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestUnassignAbsentPairIsNotFound(t *testing.T) {
	svc := NewService(newMemoryAssignmentRepo(), nil)

	err := svc.Unassign(context.Background(), uuid.New(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUnassignThenReassign(t *testing.T) {
	repo := newMemoryAssignmentRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()
	actor, userID, roleID := uuid.New(), uuid.New(), uuid.New()

	_, err := svc.Assign(ctx, actor, userID, roleID)
	require.NoError(t, err)
	require.NoError(t, svc.Unassign(ctx, actor, userID, roleID))

	// Revoking again is absent-pair, not an error at the store layer.
	err = svc.Unassign(ctx, actor, userID, roleID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Assign(ctx, actor, userID, roleID)
	require.NoError(t, err)

	roles, err := svc.RolesForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{roleID}, roles)
}

func TestAssignmentMutationsAreAudited(t *testing.T) {
	audit := &recordingAudit{}
	svc := NewService(newMemoryAssignmentRepo(), audit)
	ctx := context.Background()
	actor, userID, roleID := uuid.New(), uuid.New(), uuid.New()

	_, err := svc.Assign(ctx, actor, userID, roleID)
	require.NoError(t, err)
	require.NoError(t, svc.Unassign(ctx, actor, userID, roleID))

	require.Len(t, audit.logs, 2)
	require.Equal(t, "assignment.create", audit.logs[0].Action)
	require.Equal(t, "assignment.delete", audit.logs[1].Action)
}
