package access

import "strings"

// PermissionNames is the closed permission vocabulary, in the order the
// flags appear on a rule. Requested names outside this list evaluate to
// "flag absent" and can therefore never grant.
var PermissionNames = []string{
	"read",
	"read_all",
	"create",
	"update",
	"update_all",
	"delete",
	"delete_all",
}

// ParsePermissions derives the requested permission set from its
// comma-separated wire form: split, trim whitespace, discard empty tokens.
func ParsePermissions(raw string) []string {
	parts := strings.Split(raw, ",")
	perms := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		perms = append(perms, p)
	}
	return perms
}
