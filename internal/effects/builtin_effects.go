package effects

import (
	"fmt"

	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/stats"
)

// Built-in effect type names
const (
	TypeStatBuff              = "StatBuff"
	TypeIncreaseSkill         = "IncreaseSkill"
	TypeAddSocialRule         = "AddSocialRule"
	TypeAddLocationPreference = "AddLocationPreference"
	TypeAddTrait              = "AddTrait"
	TypeRemoveTrait           = "RemoveTrait"
)

var builtinEffects = map[string]EffectConstructor{
	TypeStatBuff:              newStatBuff,
	TypeIncreaseSkill:         newIncreaseSkill,
	TypeAddSocialRule:         newAddSocialRule,
	TypeAddLocationPreference: newAddLocationPreference,
	TypeAddTrait:              newAddTrait,
	TypeRemoveTrait:           newRemoveTrait,
}

// StatBuff adds one modifier to a stat on the target
type StatBuff struct {
	Stat   string
	Amount float64
	Kind   stats.Kind
}

func newStatBuff(_ *Registry, p Params) (Effect, error) {
	stat, err := p.String("stat")
	if err != nil {
		return nil, err
	}
	amount, err := p.Float("amount")
	if err != nil {
		return nil, err
	}
	kindName, err := p.StringOr("modifier_type", "FLAT")
	if err != nil {
		return nil, err
	}
	kind, err := stats.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return &StatBuff{Stat: stat, Amount: amount, Kind: kind}, nil
}

func (e *StatBuff) Description() string {
	switch e.Kind {
	case stats.PercentAdd, stats.PercentMultiply:
		return fmt.Sprintf("%+.0f%% %s", e.Amount*100, e.Stat)
	default:
		return fmt.Sprintf("%+g %s", e.Amount, e.Stat)
	}
}

// Validate checks the target carries the stat
func (e *StatBuff) Validate(target *entities.Entity) error {
	_, err := target.Stats.Get(e.Stat)
	return err
}

func (e *StatBuff) Apply(ctx *Context, target *entities.Entity) error {
	stat, err := target.Stats.Get(e.Stat)
	if err != nil {
		return err
	}
	return stat.AddModifier(stats.Modifier{Kind: e.Kind, Magnitude: e.Amount, Source: ctx.Source})
}

func (e *StatBuff) Remove(ctx *Context, target *entities.Entity) error {
	stat, err := target.Stats.Get(e.Stat)
	if err != nil {
		return err
	}
	stat.RemoveModifiersFromSource(ctx.Source)
	return nil
}

// IncreaseSkill permanently raises a skill's base value. Removing it does
// nothing.
type IncreaseSkill struct {
	Skill  string
	Amount float64
}

func newIncreaseSkill(_ *Registry, p Params) (Effect, error) {
	skill, err := p.String("skill")
	if err != nil {
		return nil, err
	}
	amount, err := p.Float("amount")
	if err != nil {
		return nil, err
	}
	return &IncreaseSkill{Skill: skill, Amount: amount}, nil
}

func (e *IncreaseSkill) Description() string {
	return fmt.Sprintf("%+g %s skill", e.Amount, e.Skill)
}

func (e *IncreaseSkill) Apply(_ *Context, target *entities.Entity) error {
	skill, err := target.Skills.Get(e.Skill)
	if simerr.IsNotFound(err) {
		skill = stats.NewSkill(0)
		if err := target.Skills.Add(e.Skill, skill); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	skill.AddToBase(e.Amount)
	return nil
}

func (e *IncreaseSkill) Remove(_ *Context, _ *entities.Entity) error {
	return nil
}

// AddSocialRule registers a social rule owned by the target
type AddSocialRule struct {
	RuleDescription string
	Preconditions   []Precondition
	Effects         []Effect
}

func newAddSocialRule(r *Registry, p Params) (Effect, error) {
	desc, err := p.StringOr("description", "")
	if err != nil {
		return nil, err
	}

	preRecords, err := p.List("preconditions")
	if err != nil {
		return nil, err
	}
	pres, err := r.BuildPreconditions(preRecords)
	if err != nil {
		return nil, err
	}

	effectRecords, err := p.List("effects")
	if err != nil {
		return nil, err
	}
	if len(effectRecords) == 0 {
		return nil, simerr.Validationf("social rule needs at least one effect").WithMeta("field", "effects")
	}
	effects, err := r.BuildEffects(effectRecords)
	if err != nil {
		return nil, err
	}

	return &AddSocialRule{RuleDescription: desc, Preconditions: pres, Effects: effects}, nil
}

func (e *AddSocialRule) Description() string {
	if e.RuleDescription != "" {
		return e.RuleDescription
	}
	return fmt.Sprintf("social rule with %d effect(s)", len(e.Effects))
}

// Validate checks that the rule's effects can apply to a relationship owned
// by target
func (e *AddSocialRule) Validate(target *entities.Entity) error {
	sample := entities.NewRelationship("", target, target, stats.RelationshipSchema())
	for i, effect := range e.Effects {
		v, ok := effect.(Validator)
		if !ok {
			continue
		}
		if err := v.Validate(sample); err != nil {
			return simerr.Wrapf(err, "social rule effect %s cannot apply to relationships", effect.Description()).
				WithMeta("rule_effect", i)
		}
	}
	return nil
}

// Rule returns the rule this effect registers for owner under src
func (e *AddSocialRule) Rule(owner *entities.Entity, src stats.Source) *SocialRule {
	return &SocialRule{
		Source:        src,
		Owner:         owner,
		Description:   e.Description(),
		Preconditions: e.Preconditions,
		Effects:       e.Effects,
	}
}

func (e *AddSocialRule) Apply(ctx *Context, target *entities.Entity) error {
	if ctx.Rules == nil {
		return simerr.Internalf("no rule sink to register social rule on %s", target.ID)
	}
	return ctx.Rules.RegisterRule(e.Rule(target, ctx.Source))
}

func (e *AddSocialRule) Remove(ctx *Context, target *entities.Entity) error {
	if ctx.Rules == nil {
		return simerr.Internalf("no rule sink to deregister social rule on %s", target.ID)
	}
	ctx.Rules.DeregisterRule(e.Rule(target, ctx.Source))
	return nil
}

// AddLocationPreference gives a character a preference for locations that
// satisfy all preconditions
type AddLocationPreference struct {
	PreferenceDescription string
	Preconditions         []Precondition
	Probability           float64
}

func newAddLocationPreference(r *Registry, p Params) (Effect, error) {
	desc, err := p.StringOr("description", "")
	if err != nil {
		return nil, err
	}
	prob, err := p.Float("probability")
	if err != nil {
		return nil, err
	}
	if prob < 0 || prob > 1 {
		return nil, simerr.Validationf("probability %v is outside [0, 1]", prob).WithMeta("field", "probability")
	}
	records, err := p.List("preconditions")
	if err != nil {
		return nil, err
	}
	pres, err := r.BuildPreconditions(records)
	if err != nil {
		return nil, err
	}
	return &AddLocationPreference{PreferenceDescription: desc, Preconditions: pres, Probability: prob}, nil
}

func (e *AddLocationPreference) Description() string {
	if e.PreferenceDescription != "" {
		return e.PreferenceDescription
	}
	return fmt.Sprintf("location preference (%.2f)", e.Probability)
}

func (e *AddLocationPreference) Apply(ctx *Context, target *entities.Entity) error {
	pres := make([]entities.Predicate, len(e.Preconditions))
	for i, p := range e.Preconditions {
		pres[i] = p
	}
	target.LocationPreferences.Add(&entities.LocationPreference{
		Source:        ctx.Source,
		Description:   e.Description(),
		Probability:   e.Probability,
		Preconditions: pres,
	})
	return nil
}

func (e *AddLocationPreference) Remove(ctx *Context, target *entities.Entity) error {
	target.LocationPreferences.RemoveFromSource(ctx.Source)
	return nil
}

// AddTrait attaches another trait to the target. Every application is
// counted as a grant on the trait record; the trait is detached when the last
// grant is removed, and only if no direct attach put it there first.
type AddTrait struct {
	Trait string
}

func newAddTrait(_ *Registry, p Params) (Effect, error) {
	trait, err := p.String("trait")
	if err != nil {
		return nil, err
	}
	return &AddTrait{Trait: trait}, nil
}

func (e *AddTrait) Description() string {
	return fmt.Sprintf("gain %s", e.Trait)
}

func (e *AddTrait) Apply(ctx *Context, target *entities.Entity) error {
	if ctx.Traits == nil {
		return simerr.Internalf("no trait manager to attach %s", e.Trait)
	}
	if record, ok := target.Traits.Get(e.Trait); ok {
		record.AddGrant(ctx.Source)
		return nil
	}

	if err := ctx.Traits.Attach(target, e.Trait); err != nil {
		return err
	}
	record, ok := target.Traits.Get(e.Trait)
	if !ok {
		return simerr.Internalf("%s was attached to %s but is not recorded", e.Trait, target.ID)
	}
	record.Granted = true
	record.AddGrant(ctx.Source)
	return nil
}

func (e *AddTrait) Remove(ctx *Context, target *entities.Entity) error {
	if ctx.Traits == nil {
		return simerr.Internalf("no trait manager to detach %s", e.Trait)
	}
	record, ok := target.Traits.Get(e.Trait)
	if !ok || !record.DropGrant(ctx.Source) {
		return nil
	}
	if !record.Granted || record.Grants() > 0 {
		return nil
	}
	return ctx.Traits.Detach(target, e.Trait)
}

// RemoveTrait detaches a trait from the target. It is not reversible.
type RemoveTrait struct {
	Trait string
}

func newRemoveTrait(_ *Registry, p Params) (Effect, error) {
	trait, err := p.String("trait")
	if err != nil {
		return nil, err
	}
	return &RemoveTrait{Trait: trait}, nil
}

func (e *RemoveTrait) Description() string {
	return fmt.Sprintf("lose %s", e.Trait)
}

func (e *RemoveTrait) Apply(ctx *Context, target *entities.Entity) error {
	if ctx.Traits == nil {
		return simerr.Internalf("no trait manager to detach %s", e.Trait)
	}
	if !target.HasTrait(e.Trait) {
		return nil
	}
	return ctx.Traits.Detach(target, e.Trait)
}

func (e *RemoveTrait) Remove(_ *Context, _ *entities.Entity) error {
	return nil
}
