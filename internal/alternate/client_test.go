package alternate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsgate/internal/profile"
	"pointsgate/internal/rulecheck"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

const validReply = `{
  "total": 480,
  "core_human_capital": 400,
  "spouse_factors": 0,
  "skill_transferability": 80,
  "additional_points": 0,
  "breakdown": {"age": 105, "education": 120},
  "missing_or_defaulted": []
}`

func TestCompute_ValidOutput(t *testing.T) {
	c := NewClient(fakeCompleter{reply: validReply})

	b, err := c.Compute(context.Background(), profile.Profile{Age: 30}, nil)

	require.NoError(t, err)
	assert.Equal(t, 480, b.Total)
	assert.Equal(t, 400, b.CoreHumanCapital)
	assert.Equal(t, 105, b.Factors["age"])
	assert.Equal(t, Disclaimer, b.Disclaimer)
}

func TestCompute_FencedOutput(t *testing.T) {
	c := NewClient(fakeCompleter{reply: "```json\n" + validReply + "\n```"})

	b, err := c.Compute(context.Background(), profile.Profile{}, rulecheck.Summary{"max_points": float64(1200)})

	require.NoError(t, err)
	assert.Equal(t, 480, b.Total)
}

func TestCompute_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"missing required field", `{"total": 480}`},
		{"total out of range", `{"total": 1500, "core_human_capital": 0, "spouse_factors": 0, "skill_transferability": 0, "additional_points": 0, "breakdown": {}}`},
		{"transferability above cap", `{"total": 400, "core_human_capital": 0, "spouse_factors": 0, "skill_transferability": 120, "additional_points": 0, "breakdown": {}}`},
		{"non-integer points", `{"total": 400, "core_human_capital": 0, "spouse_factors": 0, "skill_transferability": 0, "additional_points": 0, "breakdown": {"age": "many"}}`},
		{"not json at all", `I estimate around 480 points.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(fakeCompleter{reply: tt.reply})
			_, err := c.Compute(context.Background(), profile.Profile{}, nil)
			assert.Error(t, err)
		})
	}
}

func TestCompute_CompleterError(t *testing.T) {
	c := NewClient(fakeCompleter{err: errors.New("timeout")})

	_, err := c.Compute(context.Background(), profile.Profile{}, nil)

	assert.ErrorContains(t, err, "timeout")
}

func TestCompute_NilClient(t *testing.T) {
	var c *Client

	_, err := c.Compute(context.Background(), profile.Profile{}, nil)

	assert.Error(t, err)
}
