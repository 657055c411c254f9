package repository

import (
	"testing"

	"github.com/newsportal/internal/constants"
)

func TestUserAddRolesAndListMembers(t *testing.T) {
	db := setupRepositoryTestDB(t)
	users := NewUserRepository(db)
	roles := NewRoleRepository(db)
	writer := mustCreateUser(t, db, "writer", "writer@example.com")
	mustCreateUser(t, db, "reader", "reader@example.com")

	updated, err := users.AddRoles(writer.ID, []string{constants.RoleAuthors, constants.RoleCommon})
	if err != nil {
		t.Fatalf("add roles failed: %v", err)
	}
	if !updated.HasRole(constants.RoleAuthors) || len(updated.Roles) != 2 {
		t.Fatalf("unexpected roles %v", updated.Roles)
	}
	again, err := users.AddRoles(writer.ID, []string{constants.RoleAuthors})
	if err != nil || len(again.Roles) != 2 {
		t.Fatalf("second add should be idempotent, got %v err=%v", again.Roles, err)
	}

	members, err := roles.ListMembers(constants.RoleAuthors)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != writer.ID {
		t.Fatalf("authors members want [writer] got %+v", members)
	}
	commons, _ := roles.ListMembers(constants.RoleCommon)
	if len(commons) != 2 {
		t.Fatalf("common members want 2 got %d", len(commons))
	}

	missing, err := users.AddRoles(9999, []string{constants.RoleAuthors})
	if err != nil || missing != nil {
		t.Fatalf("missing user should return nil, got %+v err=%v", missing, err)
	}
}

func TestUserSetRolesKeepsCommon(t *testing.T) {
	db := setupRepositoryTestDB(t)
	users := NewUserRepository(db)
	user := mustCreateUser(t, db, "someone", "")

	updated, err := users.SetRoles(user.ID, []string{constants.RoleAuthors})
	if err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if !updated.HasRole(constants.RoleCommon) || !updated.HasRole(constants.RoleAuthors) {
		t.Fatalf("unexpected roles %v", updated.Roles)
	}
}

func TestUserLookupsAndUniquenessCounts(t *testing.T) {
	db := setupRepositoryTestDB(t)
	users := NewUserRepository(db)
	first := mustCreateUser(t, db, "first", "First@Example.com")
	mustCreateUser(t, db, "noemail", "")

	found, err := users.GetByEmail("first@example.com")
	if err != nil || found == nil || found.ID != first.ID {
		t.Fatalf("case-insensitive email lookup failed: %+v err=%v", found, err)
	}
	if empty, _ := users.GetByEmail("  "); empty != nil {
		t.Fatalf("blank email must not match users without email")
	}
	if count, _ := users.CountByUsername("first", first.ID); count != 0 {
		t.Fatalf("own username should be excluded, got %d", count)
	}
	if count, _ := users.CountByEmail("FIRST@example.com", 0); count != 1 {
		t.Fatalf("email count want 1 got %d", count)
	}

	first.FirstName = "Ann"
	first.Email = "ann@example.com"
	if err := users.UpdateProfile(first); err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	reloaded, _ := users.GetByID(first.ID)
	if reloaded.FirstName != "Ann" || reloaded.Email != "ann@example.com" {
		t.Fatalf("profile not saved: %+v", reloaded)
	}
	if !reloaded.HasRole(constants.RoleCommon) {
		t.Fatalf("profile update must not touch roles, got %v", reloaded.Roles)
	}
}

func TestUserBumpTokenVersion(t *testing.T) {
	db := setupRepositoryTestDB(t)
	users := NewUserRepository(db)
	user := mustCreateUser(t, db, "tok", "")

	if err := users.BumpTokenVersion(user.ID); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	reloaded, _ := users.GetByID(user.ID)
	if reloaded.TokenVersion != 1 || reloaded.TokenInvalidBefore == nil {
		t.Fatalf("token version not bumped: %+v", reloaded)
	}
}
