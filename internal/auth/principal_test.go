package auth

import "testing"

func TestAnonymousPrincipal(t *testing.T) {
	p := Anonymous()
	if !p.IsAnonymous() {
		t.Fatal("expected anonymous principal")
	}
	if p.IsAdmin() || p.IsEndUser() || p.IsOrganizer() {
		t.Fatalf("anonymous principal claims a role: %#v", p)
	}
}

func TestZeroPrincipalIsAnonymous(t *testing.T) {
	var p Principal
	if !p.IsAnonymous() {
		t.Fatal("zero principal must read as anonymous")
	}
}

func TestIsAdmin(t *testing.T) {
	admin := Principal{ID: "a1", Kind: KindEndUser, Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Fatal("expected admin")
	}

	// Role alone is not enough; an organizer can never be admin.
	impostor := Principal{ID: "o1", Kind: KindOrganizer, Role: RoleAdmin}
	if impostor.IsAdmin() {
		t.Fatal("organizer must not pass the admin check")
	}
}
