package webagent_test

import (
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_HandoffToolName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		agent string
		want  string
	}{
		{"spaces become underscores", "Research Agent", "transfer_to_research_agent"},
		{"punctuation collapses", "Web--Search  Agent!", "transfer_to_web_search_agent"},
		{"digits are kept", "Agent 2", "transfer_to_agent_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := &webagent.Agent{Name: tt.agent}

			assert.Equal(t, tt.want, a.HandoffToolName())
		})
	}
}

func TestAgent_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()

		a := &webagent.Agent{Model: &mock.Model{}}

		err := a.Validate()
		require.Error(t, err)
		assert.Equal(t, webagent.EINVALID, webagent.ErrorCode(err))
	})

	t.Run("requires a model", func(t *testing.T) {
		t.Parallel()

		a := &webagent.Agent{Name: "Planner"}

		err := a.Validate()
		require.Error(t, err)
		assert.Contains(t, webagent.ErrorMessage(err), "Planner")
	})

	t.Run("accepts a complete agent", func(t *testing.T) {
		t.Parallel()

		a := &webagent.Agent{Name: "Planner", Model: &mock.Model{}}

		require.NoError(t, a.Validate())
	})
}
