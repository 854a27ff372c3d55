package triage

import (
	"strings"

	"github.com/spec-kit/support-service/internal/domain"
)

// HandlerPools maps ticket categories to eligible handler ids.
type HandlerPools map[domain.TicketCategory][]string

// DefaultPools is the static assignment table. Unknown categories fall
// back to the "other" pool.
func DefaultPools() HandlerPools {
	return HandlerPools{
		domain.CategoryTechnical: {"agent-tech-1", "agent-tech-2"},
		domain.CategoryGameplay:  {"agent-game-1", "agent-game-2"},
		domain.CategoryAccount:   {"agent-account-1"},
		domain.CategoryBilling:   {"agent-billing-1"},
		domain.CategoryOther:     {"agent-general-1"},
	}
}

// ApplyOverrides merges operator supplied pools over the defaults. The
// format is "category=id,id;category=id". Malformed segments are skipped.
func (p HandlerPools) ApplyOverrides(overrides string) HandlerPools {
	for _, segment := range strings.Split(overrides, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok {
			continue
		}
		category := domain.TicketCategory(strings.TrimSpace(key))
		if !domain.ValidTicketCategory(category) {
			continue
		}
		var handlers []string
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				handlers = append(handlers, id)
			}
		}
		if len(handlers) > 0 {
			p[category] = handlers
		}
	}
	return p
}

// PoolFor returns the handler pool for a category, falling back to the
// general pool when the category has no dedicated handlers.
func (p HandlerPools) PoolFor(category domain.TicketCategory) []string {
	if pool, ok := p[category]; ok && len(pool) > 0 {
		return pool
	}
	return p[domain.CategoryOther]
}
