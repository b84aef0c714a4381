package roles

import "strings"

// Policy resolves roles from email addresses. It holds no mutable state and
// is safe for concurrent use.
type Policy struct {
	emails   map[string]Role
	domains  map[string]Role
	preserve bool
}

// NewPolicy builds a policy from cfg. Keys are folded to lower case.
func NewPolicy(cfg *Config) *Policy {
	p := &Policy{
		emails:   make(map[string]Role, len(cfg.Emails)),
		domains:  make(map[string]Role, len(cfg.Domains)),
		preserve: cfg.Preserve(),
	}
	for email, role := range cfg.Emails {
		p.emails[fold(email)] = role
	}
	for domain, role := range cfg.Domains {
		p.domains[strings.TrimPrefix(fold(domain), ".")] = role
	}
	return p
}

// Resolve computes the role for email: a pinned address wins, then a trusted
// domain or any of its subdomains, else User.
func (p *Policy) Resolve(email string) Role {
	email = fold(email)

	if role, ok := p.emails[email]; ok {
		return role
	}

	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return User
	}

	// walk from the full host to its parents: a.b.example.com, b.example.com, example.com
	host := email[at+1:]
	for host != "" {
		if role, ok := p.domains[host]; ok {
			return role
		}
		_, rest, found := strings.Cut(host, ".")
		if !found {
			break
		}
		host = rest
	}

	return User
}

// Reconcile decides the role to store at login given the previously stored role.
// Pinned addresses always take their configured tier. Otherwise, when
// preservation is enabled, a stored reviewer tier is never downgraded by
// recomputation.
func (p *Policy) Reconcile(email string, stored Role) Role {
	if role, ok := p.emails[fold(email)]; ok {
		return role
	}

	computed := p.Resolve(email)
	if p.preserve && stored.IsReviewer() && !computed.IsReviewer() {
		return stored
	}
	return computed
}

// Pinned reports whether email has a fixed tier.
func (p *Policy) Pinned(email string) bool {
	_, ok := p.emails[fold(email)]
	return ok
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
