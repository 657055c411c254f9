package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("moderators", "/admin/categories/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"moderators"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/admin/categories/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/admin/categories/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("moderators", "/admin/subscriptions", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("mailers", "/admin/digest/run", "POST"); err != nil {
		t.Fatalf("grant finance policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"moderators"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:moderators" {
		t.Fatalf("roles want [role:moderators], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"mailers"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:mailers" {
		t.Fatalf("roles want [role:mailers], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/subscriptions", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/digest/run", "POST")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/admin/categories/:id/", want: "/admin/categories/:id"},
		{in: "/admin/categories/:id", want: "/admin/categories/:id"},
		{in: "admin/users", want: "/admin/users"},
		{in: "/", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapBuiltinRoles(); err != nil {
			t.Fatalf("bootstrap builtin roles failed: %v", err)
		}
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:readonly": true,
		"role:editor":   true,
		"role:operator": true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAdminRoles(3, []string{"operator"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	checks := []struct {
		object string
		action string
		want   bool
	}{
		{object: "/admin/subscriptions", action: "GET", want: true},
		{object: "/admin/digest/run", action: "POST", want: true},
		{object: "/admin/categories", action: "POST", want: false},
	}
	for _, check := range checks {
		allow, err := svc.EnforceAdmin(3, check.object, check.action)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", check.action, check.object, err)
		}
		if allow != check.want {
			t.Fatalf("%s %s want %v got %v", check.action, check.object, check.want, allow)
		}
	}

	policies, err := svc.GetAdminPolicies(3)
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/digest/run" {
		t.Fatalf("direct role policies want digest run only, got %+v", policies)
	}
}

func TestDeleteRoleRemovesMembership(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("temp", "/admin/users", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.SetAdminRoles(4, []string{"temp"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.DeleteRole("temp"); err != nil {
		t.Fatalf("delete role failed: %v", err)
	}
	allow, err := svc.EnforceAdmin(4, "/admin/users", "GET")
	if err != nil || allow {
		t.Fatalf("deleted role should not grant access, allow=%v err=%v", allow, err)
	}
	roles, _ := svc.GetAdminRoles(4)
	if len(roles) != 0 {
		t.Fatalf("roles should be empty, got %v", roles)
	}
}

func TestNilServiceIsUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.EnforceAdmin(1, "/admin/users", "GET"); err != ErrUnavailable {
		t.Fatalf("want ErrUnavailable got %v", err)
	}
}
