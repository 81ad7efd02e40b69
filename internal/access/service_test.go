package access_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/access"
	"github.com/gatewarden/gatewarden/internal/elements"
	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/rules"
	"github.com/gatewarden/gatewarden/internal/users"
	_ "github.com/gatewarden/gatewarden/testing"
)

type memoryDirectory struct {
	users    map[uuid.UUID]users.User
	elements map[string]elements.Element
	roles    map[uuid.UUID][]uuid.UUID
	rules    map[string]rules.Rule
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		users:    make(map[uuid.UUID]users.User),
		elements: make(map[string]elements.Element),
		roles:    make(map[uuid.UUID][]uuid.UUID),
		rules:    make(map[string]rules.Rule),
	}
}

func ruleKey(roleID, elementID uuid.UUID) string {
	return roleID.String() + "/" + elementID.String()
}

func (d *memoryDirectory) FindActiveByID(ctx context.Context, id uuid.UUID) (users.User, error) {
	u, ok := d.users[id]
	if !ok || !u.IsActive {
		return users.User{}, fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	return u, nil
}

func (d *memoryDirectory) FindByName(ctx context.Context, name string) (elements.Element, error) {
	e, ok := d.elements[name]
	if !ok {
		return elements.Element{}, fmt.Errorf("element: %w", httpx.ErrNotFound)
	}
	return e, nil
}

func (d *memoryDirectory) RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return d.roles[userID], nil
}

func (d *memoryDirectory) FindByRoleAndElement(ctx context.Context, roleID, elementID uuid.UUID) (rules.Rule, error) {
	rule, ok := d.rules[ruleKey(roleID, elementID)]
	if !ok {
		return rules.Rule{}, fmt.Errorf("rule: %w", httpx.ErrNotFound)
	}
	return rule, nil
}

func (d *memoryDirectory) addUser(active bool) uuid.UUID {
	id := uuid.New()
	d.users[id] = users.User{ID: id, Email: id.String() + "@example.test", IsActive: active}
	return id
}

func (d *memoryDirectory) addElement(name string) elements.Element {
	e := elements.Element{ID: uuid.New(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	d.elements[name] = e
	return e
}

func (d *memoryDirectory) grantRole(userID uuid.UUID, flags rules.PermissionFlags, elementID uuid.UUID) uuid.UUID {
	roleID := uuid.New()
	d.roles[userID] = append(d.roles[userID], roleID)
	d.rules[ruleKey(roleID, elementID)] = rules.Rule{
		ID:        uuid.New(),
		RoleID:    roleID,
		ElementID: elementID,
		Flags:     flags,
	}
	return roleID
}

func newEngine(d *memoryDirectory) *access.Service {
	return access.NewService(d, d, d, d)
}

func TestCheckAccessMissingParameters(t *testing.T) {
	d := newMemoryDirectory()
	svc := newEngine(d)
	ctx := context.Background()

	cases := []struct {
		name        string
		userID      string
		resource    string
		permissions string
	}{
		{"no user", "", "document", "read"},
		{"no resource", uuid.NewString(), "", "read"},
		{"no permissions", uuid.NewString(), "document", ""},
		{"blank permissions", uuid.NewString(), "document", " , ,"},
		{"whitespace everywhere", "  ", "  ", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckAccess(ctx, tc.userID, tc.resource, tc.permissions)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCheckAccessUnknownUser(t *testing.T) {
	d := newMemoryDirectory()
	d.addElement("document")
	svc := newEngine(d)
	ctx := context.Background()

	_, err := svc.CheckAccess(ctx, uuid.NewString(), "document", "read")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.CheckAccess(ctx, "not-a-uuid", "document", "read")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestCheckAccessInactiveUser(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(false)
	element := d.addElement("document")
	d.grantRole(uid, rules.PermissionFlags{Read: true}, element.ID)
	svc := newEngine(d)

	_, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestCheckAccessUserCheckPrecedesResourceCheck(t *testing.T) {
	d := newMemoryDirectory()
	svc := newEngine(d)

	// Both the user and the resource are unknown; the caller must see the
	// authentication failure, not a hint about the resource.
	_, err := svc.CheckAccess(context.Background(), uuid.NewString(), "ghost", "read")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestCheckAccessUnknownResource(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "ghost", "read")
	require.NoError(t, err)
	require.False(t, decision.Granted)
	require.Equal(t, access.ReasonResourceNotFound, decision.Reason)
	require.Nil(t, decision.Element)
}

func TestCheckAccessNoRoles(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	d.addElement("document")
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read")
	require.NoError(t, err)
	require.False(t, decision.Granted)
	require.Equal(t, access.ReasonInsufficientPermissions, decision.Reason)
}

func TestCheckAccessSubsetGrant(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	d.grantRole(uid, rules.PermissionFlags{Read: true, ReadAll: true, Update: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read,update")
	require.NoError(t, err)
	require.True(t, decision.Granted)
	require.NotNil(t, decision.Element)
	require.Equal(t, element.ID, decision.Element.ID)
}

func TestCheckAccessPartialMatchDenies(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	d.grantRole(uid, rules.PermissionFlags{Read: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read,delete")
	require.NoError(t, err)
	require.False(t, decision.Granted)
	require.Equal(t, access.ReasonInsufficientPermissions, decision.Reason)
}

func TestCheckAccessNoCrossRoleCombination(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	// One role may read, another may update. Neither satisfies the whole
	// request on its own, so the union must not grant.
	d.grantRole(uid, rules.PermissionFlags{Read: true}, element.ID)
	d.grantRole(uid, rules.PermissionFlags{Update: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read,update")
	require.NoError(t, err)
	require.False(t, decision.Granted)
}

func TestCheckAccessAnySatisfyingRoleGrants(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	d.grantRole(uid, rules.PermissionFlags{Create: true}, element.ID)
	d.grantRole(uid, rules.PermissionFlags{Read: true, Update: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read,update")
	require.NoError(t, err)
	require.True(t, decision.Granted)
}

func TestCheckAccessRoleWithoutRuleIsSkipped(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	// A role with no rule for this element contributes nothing.
	d.roles[uid] = append(d.roles[uid], uuid.New())
	d.grantRole(uid, rules.PermissionFlags{Read: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read")
	require.NoError(t, err)
	require.True(t, decision.Granted)
}

func TestCheckAccessUnknownPermissionNeverGrants(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	element := d.addElement("document")
	d.grantRole(uid, rules.PermissionFlags{Read: true, ReadAll: true, Create: true, Update: true, UpdateAll: true, Delete: true, DeleteAll: true}, element.ID)
	svc := newEngine(d)

	decision, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read,publish")
	require.NoError(t, err)
	require.False(t, decision.Granted)
	require.Equal(t, access.ReasonInsufficientPermissions, decision.Reason)
}

func TestCheckAccessStoreErrorPropagates(t *testing.T) {
	d := newMemoryDirectory()
	uid := d.addUser(true)
	d.addElement("document")
	svc := access.NewService(d, d, failingRoleSource{}, d)

	_, err := svc.CheckAccess(context.Background(), uid.String(), "document", "read")
	require.Error(t, err)
	require.False(t, errors.Is(err, httpx.ErrUnauthorized))
}

type failingRoleSource struct{}

func (failingRoleSource) RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, errors.New("roles unavailable")
}

func TestParsePermissions(t *testing.T) {
	require.Equal(t, []string{"read", "update"}, access.ParsePermissions("read,update"))
	require.Equal(t, []string{"read", "update"}, access.ParsePermissions(" read , update "))
	require.Equal(t, []string{"read"}, access.ParsePermissions("read,,"))
	require.Empty(t, access.ParsePermissions(" , ,"))
	require.Empty(t, access.ParsePermissions(""))
}
