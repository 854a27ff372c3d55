package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-service/internal/domain"
)

func TestPoolForKnownCategories(t *testing.T) {
	pools := DefaultPools()

	assert.Equal(t, []string{"agent-tech-1", "agent-tech-2"}, pools.PoolFor(domain.CategoryTechnical))
	assert.Equal(t, []string{"agent-game-1", "agent-game-2"}, pools.PoolFor(domain.CategoryGameplay))
	assert.Equal(t, []string{"agent-account-1"}, pools.PoolFor(domain.CategoryAccount))
	assert.Equal(t, []string{"agent-billing-1"}, pools.PoolFor(domain.CategoryBilling))
	assert.Equal(t, []string{"agent-general-1"}, pools.PoolFor(domain.CategoryOther))
}

func TestPoolForUnknownCategoryFallsBack(t *testing.T) {
	pools := DefaultPools()
	assert.Equal(t, []string{"agent-general-1"}, pools.PoolFor(domain.TicketCategory("mystery")))
}

func TestApplyOverrides(t *testing.T) {
	pools := DefaultPools().ApplyOverrides("billing=b1,b2; technical = t1")

	assert.Equal(t, []string{"b1", "b2"}, pools.PoolFor(domain.CategoryBilling))
	assert.Equal(t, []string{"t1"}, pools.PoolFor(domain.CategoryTechnical))
	// untouched categories keep their defaults
	assert.Equal(t, []string{"agent-account-1"}, pools.PoolFor(domain.CategoryAccount))
}

func TestApplyOverridesSkipsMalformedSegments(t *testing.T) {
	pools := DefaultPools().ApplyOverrides("nonsense;unknown=x;billing=")

	assert.Equal(t, []string{"agent-billing-1"}, pools.PoolFor(domain.CategoryBilling))
}
