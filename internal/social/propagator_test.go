package social_test

import (
	"testing"

	"github.com/ShiJbey/neighborly/internal/effects"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/relationships"
	"github.com/ShiJbey/neighborly/internal/social"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/traits"
	"github.com/ShiJbey/neighborly/internal/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PropagatorTestSuite struct {
	suite.Suite
	arena      *stats.SourceArena
	propagator *social.Propagator
	manager    *traits.Manager
	directory  *relationships.Directory
}

func (s *PropagatorTestSuite) SetupTest() {
	lib := traits.NewLibrary()

	// gullible characters think well of everyone
	s.Require().NoError(lib.Add(traits.NewBuilder("gullible").
		AddEffect(&effects.AddSocialRule{
			RuleDescription: "trusts everyone",
			Effects:         []effects.Effect{&effects.StatBuff{Stat: stats.Reputation, Amount: 5}},
		}).
		Build()))

	// flirts are attracted to charming targets
	s.Require().NoError(lib.Add(traits.NewBuilder("flirt").
		AddEffect(&effects.AddSocialRule{
			RuleDescription: "likes charming people",
			Preconditions:   []effects.Precondition{&effects.TargetHasTrait{Trait: "charming"}},
			Effects:         []effects.Effect{&effects.StatBuff{Stat: stats.Romance, Amount: 10}},
		}).
		Build()))

	// generous characters also grant rapport
	s.Require().NoError(lib.Add(traits.NewBuilder("generous").
		AddEffect(&effects.AddSocialRule{
			RuleDescription: "gives freely",
			Effects: []effects.Effect{
				&effects.StatBuff{Stat: stats.Reputation, Amount: 3},
				&effects.StatBuff{Stat: stats.InteractionScore, Amount: 2},
			},
		}).
		Build()))

	s.Require().NoError(lib.Add(traits.NewBuilder("charming").Build()))

	// admirers and devotees both mark their relationships as friendly
	s.Require().NoError(lib.Add(traits.NewBuilder("friendly").
		AddEffect(&effects.StatBuff{Stat: stats.InteractionScore, Amount: 1}).
		Build()))
	for _, id := range []string{"admirer", "devotee"} {
		s.Require().NoError(lib.Add(traits.NewBuilder(id).
			AddEffect(&effects.AddSocialRule{
				RuleDescription: id + " befriends everyone",
				Effects:         []effects.Effect{&effects.AddTrait{Trait: "friendly"}},
			}).
			Build()))
	}

	// boldness is a character stat, relationships do not carry it
	s.Require().NoError(lib.Add(traits.NewBuilder("vain").
		AddEffect(&effects.AddSocialRule{
			Effects: []effects.Effect{&effects.StatBuff{Stat: stats.Boldness, Amount: 5}},
		}).
		Build()))

	s.arena = stats.NewSourceArena()
	s.propagator = social.NewPropagator(nil)
	s.manager = traits.NewManager(&traits.ManagerConfig{
		Library: lib,
		Arena:   s.arena,
		Rules:   s.propagator,
	})
	s.propagator.SetTraitAttacher(s.manager)
	s.directory = relationships.NewDirectory(&relationships.DirectoryConfig{
		Listener:  s.propagator,
		Removal:   s.propagator,
		Generator: uuid.NewSequenceGenerator("rel"),
	})
}

func (s *PropagatorTestSuite) character(id string) *entities.Entity {
	return entities.New(&entities.Config{ID: id, Kind: entities.KindCharacter, Schema: stats.CharacterSchema()})
}

func (s *PropagatorTestSuite) value(rel *entities.Entity, stat string) float64 {
	st, err := rel.GetStat(stat)
	s.Require().NoError(err)
	return st.Value()
}

func (s *PropagatorTestSuite) TestRuleAppliesToExistingRelationships() {
	ada, bo := s.character("ada"), s.character("bo")
	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	s.Equal(0.0, s.value(rel, stats.Reputation))

	s.Require().NoError(s.manager.Attach(ada, "gullible"))
	s.Equal(5.0, s.value(rel, stats.Reputation))
	s.Len(s.propagator.Rules(ada), 1)

	// reverse direction is an independent relationship
	back, err := s.directory.GetOrCreate(bo, ada)
	s.Require().NoError(err)
	s.Equal(0.0, s.value(back, stats.Reputation))
}

func (s *PropagatorTestSuite) TestRuleAppliesToRelationshipsCreatedLater() {
	ada, bo := s.character("ada"), s.character("bo")
	s.Require().NoError(s.manager.Attach(ada, "gullible"))

	s.False(s.directory.Exists(ada, bo))
	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	s.Equal(5.0, s.value(rel, stats.Reputation))

	again, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	s.Same(rel, again)
	s.Equal(5.0, s.value(rel, stats.Reputation), "rules are not re-applied")
}

func (s *PropagatorTestSuite) TestDeregisterRemovesOnlyThatRule() {
	ada := s.character("ada")
	var rels []*entities.Entity
	for _, id := range []string{"b", "c", "d"} {
		rel, err := s.directory.GetOrCreate(ada, s.character(id))
		s.Require().NoError(err)
		rels = append(rels, rel)
	}

	s.Require().NoError(s.manager.Attach(ada, "gullible"))
	s.Require().NoError(s.manager.Attach(ada, "generous"))
	for _, rel := range rels {
		s.Equal(8.0, s.value(rel, stats.Reputation))
		s.Equal(2.0, s.value(rel, stats.InteractionScore))
	}

	s.Require().NoError(s.manager.Detach(ada, "gullible"))
	for _, rel := range rels {
		s.Equal(3.0, s.value(rel, stats.Reputation))
		s.Equal(2.0, s.value(rel, stats.InteractionScore))

		rep, _ := rel.GetStat(stats.Reputation)
		s.Len(rep.Modifiers(), 1)
	}
	s.Len(s.propagator.Rules(ada), 1)
	s.Equal("gives freely", s.propagator.Rules(ada)[0].Description)
}

func (s *PropagatorTestSuite) TestPreconditionsGateRules() {
	ada, bo, cy := s.character("ada"), s.character("bo"), s.character("cy")
	s.Require().NoError(s.manager.Attach(cy, "charming"))

	toBo, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	toCy, err := s.directory.GetOrCreate(ada, cy)
	s.Require().NoError(err)

	s.Require().NoError(s.manager.Attach(ada, "flirt"))
	s.Equal(0.0, s.value(toBo, stats.Romance))
	s.Equal(10.0, s.value(toCy, stats.Romance))

	// bo becomes charming; the rule catches up on re-evaluation
	s.Require().NoError(s.manager.Attach(bo, "charming"))
	s.Equal(0.0, s.value(toBo, stats.Romance))
	s.Require().NoError(s.propagator.Reevaluate(ada))
	s.Equal(10.0, s.value(toBo, stats.Romance))

	// cy loses it; re-evaluation retracts
	s.Require().NoError(s.manager.Detach(cy, "charming"))
	s.Require().NoError(s.propagator.Reevaluate(ada))
	s.Equal(0.0, s.value(toCy, stats.Romance))

	// detaching removes from every relationship regardless of preconditions
	s.Require().NoError(s.manager.Detach(ada, "flirt"))
	s.Equal(0.0, s.value(toBo, stats.Romance))
	s.Empty(s.propagator.Rules(ada))
}

func (s *PropagatorTestSuite) TestDeregisterIsIdempotent() {
	ada, bo := s.character("ada"), s.character("bo")
	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)

	rule := &effects.SocialRule{
		Source:  s.arena.Allocate(),
		Owner:   ada,
		Effects: []effects.Effect{&effects.StatBuff{Stat: stats.Reputation, Amount: 7}},
	}
	s.Require().NoError(s.propagator.RegisterRule(rule))
	s.True(s.propagator.IsApplied(rule, rel))
	s.True(simerr.IsAlreadyExists(s.propagator.RegisterRule(rule)))

	s.propagator.DeregisterRule(rule)
	s.propagator.DeregisterRule(rule)
	s.Equal(0.0, s.value(rel, stats.Reputation))
	s.False(s.propagator.IsApplied(rule, rel))
}

func (s *PropagatorTestSuite) TestRuleWithoutOwner() {
	err := s.propagator.RegisterRule(&effects.SocialRule{Source: s.arena.Allocate()})
	s.True(simerr.IsInternal(err))

	err = s.propagator.RegisterRule(&effects.SocialRule{Owner: s.character("ada")})
	s.True(simerr.IsInternal(err))
}

func (s *PropagatorTestSuite) TestRemovedRelationshipsAreForgotten() {
	ada, bo := s.character("ada"), s.character("bo")
	s.Require().NoError(s.manager.Attach(ada, "gullible"))
	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)

	rule := s.propagator.Rules(ada)[0]
	s.True(s.propagator.IsApplied(rule, rel))

	removed := s.directory.RemoveAll(bo)
	s.Len(removed, 1)
	s.False(s.propagator.IsApplied(rule, rel))
	s.Empty(s.directory.Outgoing(ada))
}

func (s *PropagatorTestSuite) TestSharedRelationshipTrait() {
	ada, bo := s.character("ada"), s.character("bo")
	s.Require().NoError(s.manager.Attach(ada, "admirer"))
	s.Require().NoError(s.manager.Attach(ada, "devotee"))

	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	s.True(rel.HasTrait("friendly"))
	s.Equal(1.0, s.value(rel, stats.InteractionScore))

	s.Require().NoError(s.manager.Detach(ada, "admirer"))
	s.True(rel.HasTrait("friendly"), "devotee still grants it")
	s.Equal(1.0, s.value(rel, stats.InteractionScore))

	s.Require().NoError(s.manager.Detach(ada, "devotee"))
	s.False(rel.HasTrait("friendly"))
	s.Equal(0.0, s.value(rel, stats.InteractionScore))
}

func (s *PropagatorTestSuite) TestRuleWithUnknownRelationshipStat() {
	ada := s.character("ada")
	err := s.manager.Attach(ada, "vain")
	s.Require().Error(err)
	s.True(simerr.IsValidation(err))
	s.False(ada.HasTrait("vain"))
	s.Empty(s.propagator.Rules(ada))
}

func (s *PropagatorTestSuite) TestFailedRuleLeavesNoRelationship() {
	ada, bo := s.character("ada"), s.character("bo")
	s.Require().NoError(s.manager.Attach(ada, "gullible"))

	// registered directly, so attach-time validation never saw it
	bad := &effects.SocialRule{
		Source:  s.arena.Allocate(),
		Owner:   ada,
		Effects: []effects.Effect{&effects.StatBuff{Stat: stats.Boldness, Amount: 5}},
	}
	s.Require().NoError(s.propagator.RegisterRule(bad))

	for i := 0; i < 2; i++ {
		rel, err := s.directory.GetOrCreate(ada, bo)
		s.Require().Error(err, "attempt %d", i+1)
		s.Nil(rel)
		s.False(s.directory.Exists(ada, bo))
	}

	s.propagator.DeregisterRule(bad)
	rel, err := s.directory.GetOrCreate(ada, bo)
	s.Require().NoError(err)
	s.Equal(5.0, s.value(rel, stats.Reputation))
	rep, _ := rel.GetStat(stats.Reputation)
	s.Len(rep.Modifiers(), 1)
}

func TestPropagatorSuite(t *testing.T) {
	suite.Run(t, new(PropagatorTestSuite))
}

func TestOnRelationshipCreated_RejectsNonRelationship(t *testing.T) {
	p := social.NewPropagator(nil)
	ada := entities.New(&entities.Config{ID: "ada", Schema: stats.CharacterSchema()})

	err := p.OnRelationshipCreated(ada)
	require.Error(t, err)
	assert.True(t, simerr.IsInvalidArgument(err))
}
