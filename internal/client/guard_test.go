package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func seededSessions(t *testing.T, role Role) *SessionStore {
	t.Helper()
	sessions, creds := newTestSessionStore(t, "http://127.0.0.1:0")
	token := makeToken(t, jwt.MapClaims{
		"sub":  "7",
		"name": "Aria",
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	if err := creds.Save(token); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	if err := sessions.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return sessions
}

func TestGuardWithoutSession(t *testing.T) {
	sessions, _ := newTestSessionStore(t, "http://127.0.0.1:0")
	guard := NewGuard(sessions)

	for _, target := range []View{ViewHome, ViewSalas, ViewSala, ViewFichas, ViewMestre} {
		if got := guard.Resolve(target); got != ViewLogin {
			t.Errorf("Resolve(%s) = %s, want %s", target, got, ViewLogin)
		}
	}
	if got := guard.Resolve(ViewLogin); got != ViewLogin {
		t.Errorf("Resolve(login) = %s, want login", got)
	}
}

func TestGuardRoleMismatchFallsBackToHome(t *testing.T) {
	guard := NewGuard(seededSessions(t, RolePlayer))

	// A player heading for the mestre view lands on home, not on an
	// access-denied state.
	if got := guard.Resolve(ViewMestre); got != ViewHome {
		t.Fatalf("Resolve(mestre) = %s, want %s", got, ViewHome)
	}
	if got := guard.Resolve(ViewSalas); got != ViewSalas {
		t.Fatalf("Resolve(salas) = %s, want %s", got, ViewSalas)
	}
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	guard := NewGuard(seededSessions(t, RoleMestre))
	if got := guard.Resolve(ViewMestre); got != ViewMestre {
		t.Fatalf("Resolve(mestre) = %s, want %s", got, ViewMestre)
	}
}

func TestGuardUnknownViewFallsBackToLogin(t *testing.T) {
	guard := NewGuard(seededSessions(t, RolePlayer))
	if got := guard.Resolve(View("inexistente")); got != ViewLogin {
		t.Fatalf("Resolve(unknown) = %s, want %s", got, ViewLogin)
	}
}
