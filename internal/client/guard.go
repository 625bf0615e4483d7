package client

// View identifies a navigable screen of the client.
type View string

const (
	ViewLogin  View = "login"
	ViewHome   View = "home"
	ViewSalas  View = "salas"
	ViewSala   View = "sala"
	ViewFichas View = "fichas"
	ViewMestre View = "mestre"
)

// viewAccess describes what a view demands from the session.
type viewAccess struct {
	needsSession bool
	role         Role
}

var accessRules = map[View]viewAccess{
	ViewLogin:  {},
	ViewHome:   {needsSession: true},
	ViewSalas:  {needsSession: true},
	ViewSala:   {needsSession: true},
	ViewFichas: {needsSession: true},
	ViewMestre: {needsSession: true, role: RoleMestre},
}

// Guard gates navigation on session presence and, for some views, a role
// claim.
type Guard struct {
	sessions *SessionStore
}

// NewGuard builds a guard over the session store.
func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{sessions: sessions}
}

// Resolve returns the view to actually show for a navigation target.
// Without a session every protected view resolves to the login view; a role
// mismatch resolves to the home view.
func (g *Guard) Resolve(target View) View {
	access, known := accessRules[target]
	if !known {
		return ViewLogin
	}
	if !access.needsSession {
		return target
	}

	session, ok := g.sessions.Current()
	if !ok {
		return ViewLogin
	}
	if access.role != "" && session.Role != access.role {
		return ViewHome
	}
	return target
}
