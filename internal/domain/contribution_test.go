package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

var statuses = []domain.ContributionStatus{
	domain.ContribDraft,
	domain.ContribPending,
	domain.ContribApproved,
	domain.ContribRejected,
	domain.ContribWithdrawn,
}

func TestContributionTransitionTable(t *testing.T) {
	allowed := map[domain.ContributionStatus][]domain.ContributionStatus{
		domain.ContribDraft:     {domain.ContribPending, domain.ContribWithdrawn},
		domain.ContribPending:   {domain.ContribApproved, domain.ContribRejected, domain.ContribWithdrawn},
		domain.ContribRejected:  {domain.ContribPending, domain.ContribWithdrawn},
		domain.ContribApproved:  {},
		domain.ContribWithdrawn: {},
	}

	for _, from := range statuses {
		assert.ElementsMatch(t, allowed[from], domain.AllowedTransitions(from), "from %s", from)

		for _, to := range statuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestContributionTerminalStates(t *testing.T) {
	for _, s := range statuses {
		terminal := s == domain.ContribApproved || s == domain.ContribWithdrawn
		assert.Equal(t, terminal, s.IsTerminal(), "status %s", s)
		if terminal {
			assert.Empty(t, domain.AllowedTransitions(s))
		}
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := domain.AllowedTransitions(domain.ContribPending)
	first[0] = domain.ContribDraft

	second := domain.AllowedTransitions(domain.ContribPending)
	assert.NotContains(t, second, domain.ContribDraft)
}

func TestContributionTypeAutoApplies(t *testing.T) {
	assert.True(t, domain.ContribAddNode.AutoApplies())
	assert.True(t, domain.ContribEditNode.AutoApplies())
	assert.False(t, domain.ContribMergeNodes.AutoApplies())
	assert.False(t, domain.ContribAddSource.AutoApplies())
	assert.False(t, domain.ContribAddEvent.AutoApplies())
}
