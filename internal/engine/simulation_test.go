package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ShiJbey/neighborly/internal/content"
	"github.com/ShiJbey/neighborly/internal/engine"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/lifeevents"
	"github.com/ShiJbey/neighborly/internal/metrics"
	"github.com/ShiJbey/neighborly/internal/probability"
	"github.com/ShiJbey/neighborly/internal/random"
	mockentities "github.com/ShiJbey/neighborly/internal/repositories/entities/mock"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testTraits = `
gullible:
  conflicts_with: [skeptical]
  effects:
    - type: AddSocialRule
      description: trusts everyone
      effects:
        - type: StatBuff
          stat: reputation
          amount: 5
skeptical:
  conflicts_with: [gullible]
  effects:
    - type: StatBuff
      stat: boldness
      amount: 10
    - type: AddSocialRule
      effects:
        - type: StatBuff
          stat: reputation
          amount: -3
friendly:
  effects:
    - type: StatBuff
      stat: sociability
      amount: 10
    - type: AddSocialRule
      effects:
        - type: StatBuff
          stat: interaction_score
          amount: 2
flirtatious:
  effects:
    - type: AddSocialRule
      preconditions:
        - type: TargetHasTrait
          trait: charming
      effects:
        - type: StatBuff
          stat: romance
          amount: 10
charming:
  effects:
    - type: StatBuff
      stat: charm
      amount: 20
    - type: StatBuff
      stat: charm
      amount: 0.25
      modifier_type: PERCENT_MULTIPLY
rude:
  effects:
    - type: StatBuff
      stat: charm
      amount: -0.2
      modifier_type: percent_add
strong_a:
  effects:
    - type: StatBuff
      stat: boldness
      amount: 5
strong_b:
  effects:
    - type: StatBuff
      stat: boldness
      amount: 5
inspired:
  effects:
    - type: StatBuff
      stat: boldness
      amount: 5
drinker:
  effects:
    - type: AddLocationPreference
      probability: 0.8
      preconditions:
        - type: HasTrait
          trait: serves_alcohol
serves_alcohol: {}
library: {}
newlywed: {}
`

type SimulationTestSuite struct {
	suite.Suite
	ctx     context.Context
	sim     *engine.Simulation
	metrics *metrics.Recorder
}

func (s *SimulationTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.sim, s.metrics = s.newSimulation(nil)
}

func (s *SimulationTestSuite) newSimulation(mutate func(*engine.Config)) (*engine.Simulation, *metrics.Recorder) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := content.NewLoader(&content.LoaderConfig{Logger: logger})
	_, err := loader.Load("traits.yaml", []byte(testTraits))
	s.Require().NoError(err)

	rec := metrics.New(prometheus.NewRegistry())
	cfg := &engine.Config{
		Library:   loader.Library(),
		Generator: uuid.NewSequenceGenerator("e"),
		Random:    random.NewSeeded(7),
		Metrics:   rec,
		Logger:    logger,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return engine.New(cfg), rec
}

func TestSimulationTestSuite(t *testing.T) {
	suite.Run(t, new(SimulationTestSuite))
}

func (s *SimulationTestSuite) spawn(name string, traitIDs ...string) *entities.Entity {
	c, err := s.sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{
		Name:      name,
		LifeStage: entities.LifeStageAdult,
		Traits:    traitIDs,
	})
	s.Require().NoError(err)
	return c
}

func (s *SimulationTestSuite) value(e *entities.Entity, stat string) float64 {
	v, err := s.sim.GetStatValue(e, stat)
	s.Require().NoError(err)
	return v
}

func (s *SimulationTestSuite) relationship(owner, target *entities.Entity) *entities.Entity {
	rel, err := s.sim.GetOrCreateRelationship(owner, target)
	s.Require().NoError(err)
	return rel
}

func (s *SimulationTestSuite) TestAttachDetachRoundTrip() {
	ada, bo := s.spawn("ada"), s.spawn("bo")
	rel := s.relationship(ada, bo)

	before := ada.Stats.Snapshot()
	relBefore := rel.Stats.Snapshot()

	s.Require().NoError(s.sim.AttachTrait(ada, "skeptical"))
	s.Equal(10.0, s.value(ada, stats.Boldness))
	s.Equal(-3.0, s.value(rel, stats.Reputation))

	s.Require().NoError(s.sim.DetachTrait(ada, "skeptical"))
	s.Equal(before, ada.Stats.Snapshot())
	s.Equal(relBefore, rel.Stats.Snapshot())

	bold, err := ada.GetStat(stats.Boldness)
	s.Require().NoError(err)
	s.Empty(bold.Modifiers())
	s.Empty(s.sim.Propagator().Rules(ada))
}

func (s *SimulationTestSuite) TestProvenanceIsolation() {
	ada := s.spawn("ada", "strong_a", "strong_b")
	s.Equal(10.0, s.value(ada, stats.Boldness))

	s.Require().NoError(s.sim.DetachTrait(ada, "strong_a"))
	s.Equal(5.0, s.value(ada, stats.Boldness))
}

func (s *SimulationTestSuite) TestConflictLeavesNoPartialEffects() {
	ada, bo := s.spawn("ada", "gullible"), s.spawn("bo")
	rel := s.relationship(ada, bo)
	s.Equal(5.0, s.value(rel, stats.Reputation))

	err := s.sim.AttachTrait(ada, "skeptical")
	s.True(simerr.IsConflict(err))
	s.False(ada.HasTrait("skeptical"))
	s.Equal(0.0, s.value(ada, stats.Boldness))
	s.Equal(5.0, s.value(rel, stats.Reputation))
	s.Len(s.sim.Propagator().Rules(ada), 1)
}

func (s *SimulationTestSuite) TestRulesReachLaterRelationships() {
	ada := s.spawn("ada", "gullible")
	bo := s.spawn("bo")

	ab := s.relationship(ada, bo)
	ba := s.relationship(bo, ada)
	s.Equal(5.0, s.value(ab, stats.Reputation))
	s.Equal(0.0, s.value(ba, stats.Reputation), "rules only reach relationships their owner holds")
}

func (s *SimulationTestSuite) TestDeregistrationAcrossRelationships() {
	ada := s.spawn("ada", "gullible", "friendly")
	others := []*entities.Entity{s.spawn("bo"), s.spawn("cy"), s.spawn("di")}

	var rels []*entities.Entity
	for _, o := range others {
		rels = append(rels, s.relationship(ada, o))
	}
	for _, rel := range rels {
		s.Equal(5.0, s.value(rel, stats.Reputation))
		s.Equal(2.0, s.value(rel, stats.InteractionScore))
	}

	s.Require().NoError(s.sim.DetachTrait(ada, "gullible"))
	for _, rel := range rels {
		s.Equal(0.0, s.value(rel, stats.Reputation))
		s.Equal(2.0, s.value(rel, stats.InteractionScore), "other rules stay")
	}
}

func (s *SimulationTestSuite) TestTargetPreconditionsFollowTargetTraits() {
	ada, bo := s.spawn("ada", "flirtatious"), s.spawn("bo")
	rel := s.relationship(ada, bo)
	s.Equal(0.0, s.value(rel, stats.Romance))

	s.Require().NoError(s.sim.AttachTrait(bo, "charming"))
	s.Equal(10.0, s.value(rel, stats.Romance))

	s.Require().NoError(s.sim.DetachTrait(bo, "charming"))
	s.Equal(0.0, s.value(rel, stats.Romance))
}

func (s *SimulationTestSuite) TestOrderDeterminism() {
	a := s.spawn("a", "charming", "rude")
	b := s.spawn("b", "rude", "charming")

	s.Equal(20.0, s.value(a, stats.Charm))
	s.Equal(s.value(a, stats.Charm), s.value(b, stats.Charm))

	norm, err := s.sim.GetNormalizedValue(a, stats.Charm)
	s.Require().NoError(err)
	s.InDelta(0.2, norm, 1e-9)
}

func (s *SimulationTestSuite) TestEvaluateProbability() {
	s.InDelta(0.5, s.sim.EvaluateProbability(0.5, 0.8, 0.2), 1e-9)
	s.Equal(0.0, s.sim.EvaluateProbability(0.5, 0.8, 0))
	s.InDelta(0.65, s.sim.EvaluateProbability(0.5, 0.8, -1), 1e-9)
}

func (s *SimulationTestSuite) TestStatLookups() {
	ada := s.spawn("ada")

	_, err := s.sim.GetStatValue(ada, "luck")
	s.True(simerr.IsNotFound(err))

	_, err = s.sim.GetStatValue(nil, stats.Charm)
	s.True(simerr.IsInvalidArgument(err))

	s.Require().NoError(ada.Skills.Add("cooking", stats.NewSkill(12)))
	s.Equal(12.0, s.value(ada, "cooking"))

	err = s.sim.DetachTrait(ada, "gullible")
	s.True(simerr.IsNotFound(err))

	err = s.sim.AttachTrait(ada, "dragon")
	s.True(simerr.IsNotFound(err))
}

func (s *SimulationTestSuite) TestSpawnFailureLeavesNothingBehind() {
	live := s.sim.Arena().Len()

	_, err := s.sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{Traits: []string{"gullible", "skeptical"}})
	s.True(simerr.IsConflict(err))

	n, err := s.sim.Store().Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n)
	s.Equal(live, s.sim.Arena().Len())
}

func (s *SimulationTestSuite) TestSpawnStoreFailure() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	store := mockentities.NewMockRepository(ctrl)
	store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	sim, _ := s.newSimulation(func(cfg *engine.Config) { cfg.Store = store })
	live := sim.Arena().Len()

	_, err := sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{Traits: []string{"gullible"}})
	s.Error(err)
	s.Equal(live, sim.Arena().Len())
}

func (s *SimulationTestSuite) TestSpawnPlaceFailureLeavesNothingBehind() {
	live := s.sim.Arena().Len()

	_, err := s.sim.SpawnPlace(s.ctx, "tavern", entities.KindBusiness, "gullible", "haunted")
	s.True(simerr.IsNotFound(err))
	s.Equal(live, s.sim.Arena().Len(), "rule handles are released")

	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	store := mockentities.NewMockRepository(ctrl)
	store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	sim, _ := s.newSimulation(func(cfg *engine.Config) { cfg.Store = store })
	live = sim.Arena().Len()

	_, err = sim.SpawnPlace(s.ctx, "tavern", entities.KindBusiness, "gullible")
	s.Error(err)
	s.Equal(live, sim.Arena().Len())
}

func (s *SimulationTestSuite) TestDepart() {
	bo := s.spawn("bo", "gullible")
	live := s.sim.Arena().Len()

	ada := s.spawn("ada", "gullible", "friendly")
	s.relationship(ada, bo)
	s.relationship(bo, ada)
	s.Equal(2, s.sim.Directory().Count())

	s.Require().NoError(s.sim.Depart(s.ctx, ada))

	s.Equal(0, s.sim.Directory().Count())
	s.Empty(bo.Relationships.AllOutgoing())
	s.Empty(bo.Relationships.AllIncoming())
	s.Empty(s.sim.Propagator().Rules(ada))
	s.Len(s.sim.Propagator().Rules(bo), 1)
	s.Equal(live, s.sim.Arena().Len())

	_, err := s.sim.Store().Get(s.ctx, ada.ID)
	s.True(simerr.IsNotFound(err))
	s.True(simerr.IsNotFound(s.sim.Depart(s.ctx, ada)))

	s.Equal(1.0, testutil.ToFloat64(s.metrics.EventCounter(events.EventTypeCharacterDeparted)))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.EventCounter(events.EventTypeCharacterSpawned)))
}

func (s *SimulationTestSuite) TestInheritance() {
	sim, _ := s.newSimulation(nil)
	parentA, err := sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{Traits: []string{"charming"}})
	s.Require().NoError(err)

	// charming is not inheritable in the test content
	child, err := sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{ParentA: parentA, LifeStage: entities.LifeStageChild})
	s.Require().NoError(err)
	s.False(child.HasTrait("charming"))
}

func (s *SimulationTestSuite) TestSpawnPlace() {
	tavern, err := s.sim.SpawnPlace(s.ctx, "tavern", entities.KindBusiness, "serves_alcohol")
	s.Require().NoError(err)
	s.True(tavern.HasTrait("serves_alcohol"))

	_, err = s.sim.SpawnPlace(s.ctx, "ada", entities.KindCharacter)
	s.True(simerr.IsInvalidArgument(err))
}

func (s *SimulationTestSuite) TestStep() {
	sim, rec := s.newSimulation(func(cfg *engine.Config) {
		cfg.LifeEventChance = 1
		cfg.LifeEvents = []*lifeevents.LifeEvent{{
			ID:              "marriage",
			BaseProbability: 0.5,
			Considerations: []probability.Consideration[*entities.Entity]{
				lifeevents.VetoUnless("drinker"),
			},
			Traits: []string{"newlywed"},
		}}
	})

	library, err := sim.SpawnPlace(s.ctx, "library", entities.KindBusiness, "library")
	s.Require().NoError(err)
	tavern, err := sim.SpawnPlace(s.ctx, "tavern", entities.KindBusiness, "serves_alcohol")
	s.Require().NoError(err)

	mk := func(name string, traitIDs ...string) *entities.Entity {
		c, err := sim.SpawnCharacter(s.ctx, &engine.CharacterSpec{Name: name, LifeStage: entities.LifeStageAdult, Traits: traitIDs})
		s.Require().NoError(err)
		return c
	}
	ada := mk("ada", "drinker", "friendly")
	bo := mk("bo", "drinker")
	cy := mk("cy")
	s.Require().NoError(sim.AttachTraitFor(cy, "inspired", 1))

	report, err := sim.Step(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, report.Step)
	s.Equal(1, report.Expired)
	s.False(cy.HasTrait("inspired"))
	s.Equal(0.0, s.valueIn(sim, cy, stats.Boldness))

	s.Equal(map[string]string{ada.ID: tavern.ID, bo.ID: tavern.ID, cy.ID: library.ID}, report.Visits)
	s.Equal(1, report.Interactions)

	ab, err := sim.Directory().Get(ada, bo)
	s.Require().NoError(err)
	ba, err := sim.Directory().Get(bo, ada)
	s.Require().NoError(err)
	s.Equal(3.0, s.valueIn(sim, ab, stats.InteractionScore), "met once plus friendly")
	s.Equal(1.0, s.valueIn(sim, ba, stats.InteractionScore))

	s.Equal(map[string]string{ada.ID: "marriage", bo.ID: "marriage"}, report.LifeEvents)
	s.True(ada.HasTrait("newlywed"))
	s.False(cy.HasTrait("newlywed"))

	s.Equal(1, sim.StepCount())
	s.Equal(1.0, testutil.ToFloat64(rec.EventCounter(events.EventTypeTraitExpired)))
}

func (s *SimulationTestSuite) valueIn(sim *engine.Simulation, e *entities.Entity, stat string) float64 {
	v, err := sim.GetStatValue(e, stat)
	s.Require().NoError(err)
	return v
}
