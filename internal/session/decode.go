package session

import (
	"encoding/json"
	"strings"
)

// legacySession accepts every key spelling older client builds have written.
// Reads tolerate all of them; writes always use the canonical Session shape.
type legacySession struct {
	Token     string `json:"token"`
	AuthToken string `json:"authToken"`
	JWT       string `json:"jwt"`

	Role     string `json:"role"`
	UserRole string `json:"userRole"`

	User      *User  `json:"user"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// decodeSession parses a session record, canonicalizing legacy key aliases.
// A record with no token under any alias is treated as absent.
func decodeSession(data []byte) (Session, bool) {
	var raw legacySession
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}, false
	}

	token := firstNonEmpty(raw.Token, raw.AuthToken, raw.JWT)
	if token == "" {
		return Session{}, false
	}

	sess := Session{
		Token: token,
		Role:  normalizeRole(firstNonEmpty(raw.Role, raw.UserRole)),
	}

	if raw.User != nil {
		sess.User = *raw.User
	} else {
		sess.User = User{ID: raw.UserID, Name: raw.UserName, Email: raw.UserEmail}
	}

	if sess.Role == RoleAnonymous {
		sess.Role = roleFromToken(token)
	}

	return sess, true
}

func normalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client":
		return RoleClient
	case "lawyer", "attorney":
		return RoleLawyer
	case "admin", "administrator":
		return RoleAdmin
	default:
		return RoleAnonymous
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
