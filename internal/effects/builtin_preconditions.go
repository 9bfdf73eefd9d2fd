package effects

import (
	"fmt"

	"github.com/ShiJbey/neighborly/internal/entities"
)

// Built-in precondition type names
const (
	TypeHasTrait          = "HasTrait"
	TypeTargetHasTrait    = "TargetHasTrait"
	TypeTargetIsSex       = "TargetIsSex"
	TypeTargetLifeStageLT = "TargetLifeStageLT"
	TypeAtLeastLifeStage  = "AtLeastLifeStage"
	TypeSkillRequirement  = "SkillRequirement"
	TypeHasStatAtLeast    = "HasStatAtLeast"
)

var builtinPreconditions = map[string]PreconditionConstructor{
	TypeHasTrait:          newHasTrait,
	TypeTargetHasTrait:    newTargetHasTrait,
	TypeTargetIsSex:       newTargetIsSex,
	TypeTargetLifeStageLT: newTargetLifeStageLT,
	TypeAtLeastLifeStage:  newAtLeastLifeStage,
	TypeSkillRequirement:  newSkillRequirement,
	TypeHasStatAtLeast:    newHasStatAtLeast,
}

// relationshipTarget returns the far end of a relationship entity, or nil
func relationshipTarget(e *entities.Entity) *entities.Entity {
	if e == nil || e.Edge == nil {
		return nil
	}
	return e.Edge.Target
}

// HasTrait passes when the entity has the trait attached
type HasTrait struct {
	Trait string
}

func newHasTrait(_ *Registry, p Params) (Precondition, error) {
	trait, err := p.String("trait")
	if err != nil {
		return nil, err
	}
	return &HasTrait{Trait: trait}, nil
}

func (p *HasTrait) Description() string {
	return fmt.Sprintf("has the %s trait", p.Trait)
}

func (p *HasTrait) Check(target *entities.Entity) bool {
	return target != nil && target.HasTrait(p.Trait)
}

// TargetHasTrait passes when a relationship's target has the trait
type TargetHasTrait struct {
	Trait string
}

func newTargetHasTrait(_ *Registry, p Params) (Precondition, error) {
	trait, err := p.String("trait")
	if err != nil {
		return nil, err
	}
	return &TargetHasTrait{Trait: trait}, nil
}

func (p *TargetHasTrait) Description() string {
	return fmt.Sprintf("target has the %s trait", p.Trait)
}

func (p *TargetHasTrait) Check(relationship *entities.Entity) bool {
	target := relationshipTarget(relationship)
	return target != nil && target.HasTrait(p.Trait)
}

// TargetIsSex passes when a relationship's target has the given sex
type TargetIsSex struct {
	Sex entities.Sex
}

func newTargetIsSex(_ *Registry, p Params) (Precondition, error) {
	name, err := p.String("sex")
	if err != nil {
		return nil, err
	}
	sex, err := entities.ParseSex(name)
	if err != nil {
		return nil, err
	}
	return &TargetIsSex{Sex: sex}, nil
}

func (p *TargetIsSex) Description() string {
	return fmt.Sprintf("target is %s", p.Sex)
}

func (p *TargetIsSex) Check(relationship *entities.Entity) bool {
	target := relationshipTarget(relationship)
	return target != nil && target.Sex == p.Sex
}

// TargetLifeStageLT passes when a relationship's target is younger than the
// given life stage
type TargetLifeStageLT struct {
	LifeStage entities.LifeStage
}

func newTargetLifeStageLT(_ *Registry, p Params) (Precondition, error) {
	stage, err := lifeStageParam(p)
	if err != nil {
		return nil, err
	}
	return &TargetLifeStageLT{LifeStage: stage}, nil
}

func (p *TargetLifeStageLT) Description() string {
	return fmt.Sprintf("target is younger than %s", p.LifeStage)
}

func (p *TargetLifeStageLT) Check(relationship *entities.Entity) bool {
	target := relationshipTarget(relationship)
	return target != nil && target.LifeStage < p.LifeStage
}

// AtLeastLifeStage passes when the entity has reached the given life stage
type AtLeastLifeStage struct {
	LifeStage entities.LifeStage
}

func newAtLeastLifeStage(_ *Registry, p Params) (Precondition, error) {
	stage, err := lifeStageParam(p)
	if err != nil {
		return nil, err
	}
	return &AtLeastLifeStage{LifeStage: stage}, nil
}

func (p *AtLeastLifeStage) Description() string {
	return fmt.Sprintf("is at least %s", p.LifeStage)
}

func (p *AtLeastLifeStage) Check(target *entities.Entity) bool {
	return target != nil && target.LifeStage >= p.LifeStage
}

func lifeStageParam(p Params) (entities.LifeStage, error) {
	name, err := p.String("life_stage")
	if err != nil {
		return 0, err
	}
	return entities.ParseLifeStage(name)
}

// SkillRequirement passes when the entity's skill is at least Level
type SkillRequirement struct {
	Skill string
	Level float64
}

func newSkillRequirement(_ *Registry, p Params) (Precondition, error) {
	skill, err := p.String("skill")
	if err != nil {
		return nil, err
	}
	level, err := p.Float("level")
	if err != nil {
		return nil, err
	}
	return &SkillRequirement{Skill: skill, Level: level}, nil
}

func (p *SkillRequirement) Description() string {
	return fmt.Sprintf("has %s skill of at least %g", p.Skill, p.Level)
}

func (p *SkillRequirement) Check(target *entities.Entity) bool {
	if target == nil {
		return false
	}
	skill, err := target.Skills.Get(p.Skill)
	if err != nil {
		return false
	}
	return skill.Value() >= p.Level
}

// HasStatAtLeast passes when the entity's stat value is at least Value
type HasStatAtLeast struct {
	Stat  string
	Value float64
}

func newHasStatAtLeast(_ *Registry, p Params) (Precondition, error) {
	stat, err := p.String("stat")
	if err != nil {
		return nil, err
	}
	value, err := p.Float("value")
	if err != nil {
		return nil, err
	}
	return &HasStatAtLeast{Stat: stat, Value: value}, nil
}

func (p *HasStatAtLeast) Description() string {
	return fmt.Sprintf("has %s of at least %g", p.Stat, p.Value)
}

func (p *HasStatAtLeast) Check(target *entities.Entity) bool {
	if target == nil {
		return false
	}
	stat, err := target.Stats.Get(p.Stat)
	if err != nil {
		return false
	}
	return stat.Value() >= p.Value
}
