package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-auction/internal/domain/user"
)

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errAnubisTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

// mapRoles keeps the roles this service authorizes on and drops the rest.
func mapRoles(raw []string) []user.Role {
	out := make([]user.Role, 0, len(raw))
	seen := make(map[user.Role]struct{}, len(raw))
	for _, item := range raw {
		var role user.Role
		switch strings.ToLower(strings.TrimSpace(item)) {
		case "admin", "auction_admin":
			role = user.RoleAdmin
		case "team_owner", "owner":
			role = user.RoleTeamOwner
		default:
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
