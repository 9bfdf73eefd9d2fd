package effects_test

import (
	"testing"

	"github.com/ShiJbey/neighborly/internal/effects"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BuildEffect(t *testing.T) {
	r := effects.NewDefaultRegistry()

	t.Run("stat buff defaults to flat", func(t *testing.T) {
		e, err := r.BuildEffect(effects.TypeStatBuff, effects.Params{"stat": "reputation", "amount": 5})
		require.NoError(t, err)

		buff, ok := e.(*effects.StatBuff)
		require.True(t, ok)
		assert.Equal(t, stats.Flat, buff.Kind)
		assert.Equal(t, 5.0, buff.Amount)
		assert.Equal(t, "+5 reputation", buff.Description())
	})

	t.Run("modifier type is case insensitive", func(t *testing.T) {
		e, err := r.BuildEffect(effects.TypeStatBuff, effects.Params{
			"stat": "charm", "amount": 0.1, "modifier_type": "percent_add",
		})
		require.NoError(t, err)
		assert.Equal(t, stats.PercentAdd, e.(*effects.StatBuff).Kind)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := r.BuildEffect("Teleport", effects.Params{})
		require.Error(t, err)
		assert.True(t, simerr.IsUnknownType(err))
	})

	t.Run("malformed params are validation errors", func(t *testing.T) {
		cases := map[string]effects.Params{
			"missing stat":    {"amount": 5},
			"non-numeric":     {"stat": "reputation", "amount": "five"},
			"bad modifier":    {"stat": "reputation", "amount": 5, "modifier_type": "DOUBLE"},
			"stat not string": {"stat": 3, "amount": 5},
			"missing amount":  {"stat": "reputation"},
		}
		for name, p := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := r.BuildEffect(effects.TypeStatBuff, p)
				require.Error(t, err)
				assert.True(t, simerr.IsValidation(err), "got %v", err)
			})
		}
	})

	t.Run("social rule builds nested records", func(t *testing.T) {
		e, err := r.BuildEffect(effects.TypeAddSocialRule, effects.Params{
			"description": "admires the charming",
			"preconditions": []any{
				map[string]any{"type": "TargetHasTrait", "trait": "charming"},
			},
			"effects": []any{
				map[string]any{"type": "StatBuff", "stat": "reputation", "amount": 3},
			},
		})
		require.NoError(t, err)

		rule := e.(*effects.AddSocialRule)
		assert.Len(t, rule.Preconditions, 1)
		assert.Len(t, rule.Effects, 1)
		assert.Equal(t, "admires the charming", rule.Description())
	})

	t.Run("social rule with unknown nested precondition", func(t *testing.T) {
		_, err := r.BuildEffect(effects.TypeAddSocialRule, effects.Params{
			"preconditions": []any{map[string]any{"type": "IsWizard"}},
			"effects":       []any{map[string]any{"type": "StatBuff", "stat": "romance", "amount": 1}},
		})
		require.Error(t, err)
		assert.True(t, simerr.IsUnknownType(err))
	})

	t.Run("social rule without effects", func(t *testing.T) {
		_, err := r.BuildEffect(effects.TypeAddSocialRule, effects.Params{"description": "empty"})
		assert.True(t, simerr.IsValidation(err))
	})

	t.Run("location preference probability range", func(t *testing.T) {
		_, err := r.BuildEffect(effects.TypeAddLocationPreference, effects.Params{"probability": 1.5})
		assert.True(t, simerr.IsValidation(err))
	})
}

func TestRegistry_BuildPrecondition(t *testing.T) {
	r := effects.NewDefaultRegistry()

	_, err := r.BuildPrecondition(effects.TypeTargetIsSex, effects.Params{"sex": "female"})
	assert.NoError(t, err)

	_, err = r.BuildPrecondition(effects.TypeTargetIsSex, effects.Params{"sex": "robot"})
	assert.True(t, simerr.IsValidation(err))

	_, err = r.BuildPrecondition(effects.TypeSkillRequirement, effects.Params{"skill": "cooking", "level": "high"})
	assert.True(t, simerr.IsValidation(err))

	_, err = r.BuildPrecondition("Unknown", effects.Params{})
	assert.True(t, simerr.IsUnknownType(err))
}

func TestRegistry_Register(t *testing.T) {
	r := effects.NewRegistry()
	ctor := func(_ *effects.Registry, _ effects.Params) (effects.Effect, error) {
		return &effects.IncreaseSkill{Skill: "x", Amount: 1}, nil
	}

	require.NoError(t, r.RegisterEffect("Custom", ctor))
	err := r.RegisterEffect("Custom", ctor)
	assert.True(t, simerr.IsAlreadyExists(err))

	err = r.RegisterEffect("", ctor)
	assert.True(t, simerr.IsInvalidArgument(err))

	e, err := r.BuildEffect("Custom", nil)
	require.NoError(t, err)
	assert.Equal(t, "+1 x skill", e.Description())

	assert.Equal(t, []string{"Custom"}, r.EffectTypes())
	assert.Empty(t, r.PreconditionTypes())

	assert.Contains(t, effects.NewDefaultRegistry().EffectTypes(), effects.TypeAddSocialRule)
}

func TestRegistry_BuildEffects(t *testing.T) {
	r := effects.NewDefaultRegistry()

	list, err := r.BuildEffects([]effects.Params{
		{"type": "StatBuff", "stat": "kindness", "amount": 2},
		{"type": "IncreaseSkill", "skill": "cooking", "amount": 10},
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = r.BuildEffects([]effects.Params{
		{"type": "StatBuff", "stat": "kindness", "amount": 2},
		{"stat": "kindness"},
	})
	require.Error(t, err)
	assert.True(t, simerr.IsValidation(err))
	assert.Equal(t, 1, simerr.GetMeta(err)["index"])
}
