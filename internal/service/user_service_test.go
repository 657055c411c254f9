package service

import (
	"context"
	"testing"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileEditsOwnRecordOnly(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserService(env.users, env.roles)
	me := env.mustUser(t, "me", "me@example.com")
	other := env.mustUser(t, "other", "other@example.com")

	updated, err := svc.UpdateProfile(context.Background(), me.ID, ProfileInput{
		Username:  "me2",
		FirstName: " Anna ",
		LastName:  "Karenina",
		Email:     "anna@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "me2", updated.Username)
	assert.Equal(t, "Anna Karenina", updated.DisplayName())

	reloaded, err := env.users.GetByID(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "other", reloaded.Username)
	assert.Equal(t, "other@example.com", reloaded.Email)
}

func TestUpdateProfileRejectsTakenValues(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserService(env.users, env.roles)
	me := env.mustUser(t, "me", "me@example.com")
	env.mustUser(t, "taken", "taken@example.com")

	_, err := svc.UpdateProfile(context.Background(), me.ID, ProfileInput{Username: "taken"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = svc.UpdateProfile(context.Background(), me.ID, ProfileInput{Username: "me", Email: "TAKEN@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)
	_, err = svc.UpdateProfile(context.Background(), me.ID, ProfileInput{Username: "bad name"})
	assert.ErrorIs(t, err, ErrUsernameInvalid)
	_, err = svc.UpdateProfile(context.Background(), me.ID, ProfileInput{Username: "me", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	same, err := svc.UpdateProfile(context.Background(), me.ID, ProfileInput{Username: "me", Email: ""})
	require.NoError(t, err)
	assert.Empty(t, same.Email)

	_, err = svc.UpdateProfile(context.Background(), 9999, ProfileInput{Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBecomeAuthorIsIdempotent(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserService(env.users, env.roles)
	user := env.mustUser(t, "reader", "")

	first, err := svc.BecomeAuthor(context.Background(), user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{constants.RoleCommon, constants.RoleAuthors}, []string(first.Roles))

	second, err := svc.BecomeAuthor(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, second.Roles, 2)

	_, err = svc.BecomeAuthor(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBecomeAuthorFailsWithoutCatalogRole(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserService(env.users, env.roles)
	user := env.mustUser(t, "reader", "")
	require.NoError(t, env.db.Where("name = ?", constants.RoleAuthors).Delete(&models.Role{}).Error)

	_, err := svc.BecomeAuthor(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)

	reloaded, err := env.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleCommon}, []string(reloaded.Roles))
}

func TestRoleManagement(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserService(env.users, env.roles)
	user := env.mustUser(t, "moderator", "")

	role, created, err := svc.CreateRole("moderators", "Moderators", []string{"post.view"})
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = svc.CreateRole("moderators", "again", nil)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.AddRole(context.Background(), "moderator", role.Name)
	require.NoError(t, err)
	_, members, err := svc.RoleInfo("moderators")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].ID)

	_, err = svc.AddRole(context.Background(), "moderator", "ghosts")
	assert.ErrorIs(t, err, ErrRoleNotFound)
	_, err = svc.AddRole(context.Background(), "nobody", "moderators")
	assert.ErrorIs(t, err, ErrUserNotFound)

	replaced, err := svc.SetRoles(context.Background(), user.ID, []string{constants.RoleAuthors})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{constants.RoleCommon, constants.RoleAuthors}, []string(replaced.Roles))
}
