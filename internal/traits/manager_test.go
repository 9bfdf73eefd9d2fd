package traits_test

import (
	"errors"
	"testing"

	"github.com/ShiJbey/neighborly/internal/effects"
	"github.com/ShiJbey/neighborly/internal/entities"
	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"github.com/ShiJbey/neighborly/internal/events"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCharacter(id string) *entities.Entity {
	return entities.New(&entities.Config{
		ID:        id,
		Kind:      entities.KindCharacter,
		LifeStage: entities.LifeStageAdult,
		Schema:    stats.CharacterSchema(),
	})
}

func buff(stat string, amount float64, kind stats.Kind) effects.Effect {
	return &effects.StatBuff{Stat: stat, Amount: amount, Kind: kind}
}

// recordingEffect logs Apply and Remove calls into a shared trace
type recordingEffect struct {
	name  string
	trace *[]string
	fail  bool
}

func (e *recordingEffect) Description() string { return e.name }

func (e *recordingEffect) Apply(_ *effects.Context, _ *entities.Entity) error {
	if e.fail {
		return errors.New("apply failed")
	}
	*e.trace = append(*e.trace, "apply "+e.name)
	return nil
}

func (e *recordingEffect) Remove(_ *effects.Context, _ *entities.Entity) error {
	*e.trace = append(*e.trace, "remove "+e.name)
	return nil
}

func newManager(t *testing.T, defs ...*traits.Trait) *traits.Manager {
	t.Helper()
	lib := traits.NewLibrary()
	for _, d := range defs {
		require.NoError(t, lib.Add(d))
	}
	return traits.NewManager(&traits.ManagerConfig{Library: lib})
}

func snapshotModifiers(sheet *stats.Sheet) map[string][]stats.Modifier {
	out := make(map[string][]stats.Modifier)
	for _, id := range sheet.IDs() {
		stat, _ := sheet.Get(id)
		out[id] = stat.Modifiers()
	}
	return out
}

func TestManager_AttachDetachRoundTrip(t *testing.T) {
	kind := traits.NewBuilder("kind").
		AddEffect(buff(stats.Kindness, 10, stats.Flat)).
		AddEffect(buff(stats.Kindness, 0.5, stats.PercentAdd)).
		AddEffect(buff(stats.Sociability, 5, stats.Flat)).
		Build()
	m := newManager(t, kind)

	ada := newCharacter("ada")
	kindness, _ := ada.GetStat(stats.Kindness)
	kindness.SetBaseValue(20)

	before := snapshotModifiers(ada.Stats)
	beforeValue := kindness.Value()

	require.NoError(t, m.Attach(ada, "kind"))
	assert.True(t, ada.HasTrait("kind"))
	assert.Equal(t, 45.0, kindness.Value()) // (20 + 10) * 1.5
	assert.Len(t, kindness.Modifiers(), 2)

	require.NoError(t, m.Detach(ada, "kind"))
	assert.False(t, ada.HasTrait("kind"))
	assert.Equal(t, before, snapshotModifiers(ada.Stats))
	assert.Equal(t, beforeValue, kindness.Value())
}

func TestManager_Errors(t *testing.T) {
	m := newManager(t, traits.NewBuilder("kind").AddEffect(buff(stats.Kindness, 1, stats.Flat)).Build())
	ada := newCharacter("ada")

	err := m.Attach(ada, "unknown")
	assert.True(t, simerr.IsNotFound(err))

	require.NoError(t, m.Attach(ada, "kind"))
	err = m.Attach(ada, "kind")
	assert.True(t, simerr.IsAlreadyExists(err))

	kindness, _ := ada.GetStat(stats.Kindness)
	assert.Len(t, kindness.Modifiers(), 1, "failed attach must not stack")

	err = m.Detach(ada, "brave")
	assert.True(t, simerr.IsNotFound(err))

	err = m.AttachFor(ada, "kind", 0)
	assert.True(t, simerr.IsInvalidArgument(err))
}

func TestManager_Conflicts(t *testing.T) {
	gullible := traits.NewBuilder("gullible").
		AddEffect(buff(stats.Intelligence, -5, stats.Flat)).
		Build()
	// only skeptical declares the conflict
	skeptical := traits.NewBuilder("skeptical").
		AddEffect(buff(stats.Intelligence, 5, stats.Flat)).
		ConflictsWith("gullible").
		Build()

	t.Run("declared on the incoming trait", func(t *testing.T) {
		m := newManager(t, gullible, skeptical)
		ada := newCharacter("ada")
		require.NoError(t, m.Attach(ada, "gullible"))
		before := snapshotModifiers(ada.Stats)

		err := m.Attach(ada, "skeptical")
		require.Error(t, err)
		assert.True(t, simerr.IsConflict(err))
		assert.Equal(t, "gullible", simerr.GetMeta(err)["conflicts_with"])

		assert.False(t, ada.HasTrait("skeptical"))
		assert.Equal(t, before, snapshotModifiers(ada.Stats))
	})

	t.Run("declared on the held trait", func(t *testing.T) {
		m := newManager(t, gullible, skeptical)
		ada := newCharacter("ada")
		require.NoError(t, m.Attach(ada, "skeptical"))

		err := m.Attach(ada, "gullible")
		assert.True(t, simerr.IsConflict(err))
		assert.Equal(t, []string{"skeptical"}, ada.Traits.IDs())

		intelligence, _ := ada.GetStat(stats.Intelligence)
		assert.Equal(t, 5.0, intelligence.Value())
		assert.False(t, m.CanAttach(ada, "gullible"))
	})
}

func TestManager_ValidationIsAtomic(t *testing.T) {
	// second effect targets a stat characters do not have
	broken := traits.NewBuilder("broken").
		AddEffect(buff(stats.Kindness, 10, stats.Flat)).
		AddEffect(buff(stats.Reputation, 10, stats.Flat)).
		Build()
	m := newManager(t, broken)
	ada := newCharacter("ada")

	err := m.Attach(ada, "broken")
	require.Error(t, err)
	assert.True(t, simerr.IsValidation(err))
	assert.False(t, ada.HasTrait("broken"))

	kindness, _ := ada.GetStat(stats.Kindness)
	assert.Empty(t, kindness.Modifiers())
}

func TestManager_ApplyFailureRollsBack(t *testing.T) {
	var trace []string
	flaky := traits.NewBuilder("flaky").
		AddEffect(&recordingEffect{name: "a", trace: &trace}).
		AddEffect(buff(stats.Kindness, 3, stats.Flat)).
		AddEffect(&recordingEffect{name: "c", trace: &trace, fail: true}).
		Build()
	m := newManager(t, flaky)
	ada := newCharacter("ada")

	err := m.Attach(ada, "flaky")
	require.Error(t, err)
	assert.True(t, simerr.IsInternal(err))
	assert.False(t, ada.HasTrait("flaky"))

	kindness, _ := ada.GetStat(stats.Kindness)
	assert.Empty(t, kindness.Modifiers())
	assert.Equal(t, []string{"apply a", "remove c", "remove a"}, trace)
}

func TestManager_Order(t *testing.T) {
	a := traits.NewBuilder("a").
		AddEffect(buff(stats.Charm, 10, stats.Flat)).
		AddEffect(buff(stats.Charm, 0.5, stats.PercentMultiply)).
		Build()
	b := traits.NewBuilder("b").
		AddEffect(buff(stats.Charm, 0.2, stats.PercentAdd)).
		AddEffect(buff(stats.Charm, 4, stats.Flat)).
		Build()

	t.Run("attach order does not change the value", func(t *testing.T) {
		m := newManager(t, a, b)
		first, second := newCharacter("first"), newCharacter("second")

		require.NoError(t, m.Attach(first, "a"))
		require.NoError(t, m.Attach(first, "b"))
		require.NoError(t, m.Attach(second, "b"))
		require.NoError(t, m.Attach(second, "a"))

		c1, _ := first.GetStat(stats.Charm)
		c2, _ := second.GetStat(stats.Charm)
		assert.Equal(t, c1.Value(), c2.Value())
		assert.Equal(t, 25.0, c1.Value()) // (14 * 1.2) * 1.5 = 25.2, rounded
	})

	t.Run("removal runs in reverse declaration order", func(t *testing.T) {
		var trace []string
		ordered := traits.NewBuilder("ordered").
			AddEffect(&recordingEffect{name: "first", trace: &trace}).
			AddEffect(&recordingEffect{name: "second", trace: &trace}).
			AddEffect(&recordingEffect{name: "third", trace: &trace}).
			Build()
		m := newManager(t, ordered)
		ada := newCharacter("ada")

		require.NoError(t, m.Attach(ada, "ordered"))
		require.NoError(t, m.Detach(ada, "ordered"))

		assert.Equal(t, []string{
			"apply first", "apply second", "apply third",
			"remove third", "remove second", "remove first",
		}, trace)
	})
}

func TestManager_SourcesAreRecycled(t *testing.T) {
	arena := stats.NewSourceArena()
	lib := traits.NewLibrary()
	require.NoError(t, lib.Add(traits.NewBuilder("kind").AddEffect(buff(stats.Kindness, 1, stats.Flat)).Build()))
	m := traits.NewManager(&traits.ManagerConfig{Library: lib, Arena: arena})

	ada := newCharacter("ada")
	require.NoError(t, m.Attach(ada, "kind"))
	record, ok := ada.Traits.Get("kind")
	require.True(t, ok)
	require.Len(t, record.Sources, 1)
	src := record.Sources[0]
	assert.True(t, arena.Live(src))

	require.NoError(t, m.Detach(ada, "kind"))
	assert.False(t, arena.Live(src))
	assert.Equal(t, 0, arena.Len())
}

func TestManager_AttachForAndTick(t *testing.T) {
	m := newManager(t,
		traits.NewBuilder("grieving").AddEffect(buff(stats.Sociability, -20, stats.Flat)).Build(),
		traits.NewBuilder("kind").AddEffect(buff(stats.Kindness, 5, stats.Flat)).Build(),
	)
	ada := newCharacter("ada")
	sociability, _ := ada.GetStat(stats.Sociability)
	sociability.SetBaseValue(50)

	require.NoError(t, m.AttachFor(ada, "grieving", 2))
	require.NoError(t, m.Attach(ada, "kind"))
	assert.Equal(t, 30.0, sociability.Value())

	expired, err := m.Tick(ada)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.True(t, ada.HasTrait("grieving"))

	expired, err = m.Tick(ada)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.False(t, ada.HasTrait("grieving"))
	assert.True(t, ada.HasTrait("kind"), "permanent traits never expire")
	assert.Equal(t, 50.0, sociability.Value())
}

func TestManager_EmitsEvents(t *testing.T) {
	bus := events.NewBus()
	lib := traits.NewLibrary()
	require.NoError(t, lib.Add(traits.NewBuilder("kind").Build()))
	m := traits.NewManager(&traits.ManagerConfig{Library: lib, Bus: bus})

	var seen []events.EventType
	listener := &testListener{id: "rec", handler: func(e events.Event) error {
		seen = append(seen, e.GetType())
		return nil
	}}
	bus.Subscribe(events.EventTypeTraitAttached, listener)
	bus.Subscribe(events.EventTypeTraitDetached, listener)

	ada := newCharacter("ada")
	require.NoError(t, m.Attach(ada, "kind"))
	require.Error(t, m.Attach(ada, "kind"))
	require.NoError(t, m.Detach(ada, "kind"))

	assert.Equal(t, []events.EventType{events.EventTypeTraitAttached, events.EventTypeTraitDetached}, seen)
}

func TestManager_DetachAll(t *testing.T) {
	var trace []string
	m := newManager(t,
		traits.NewBuilder("one").AddEffect(&recordingEffect{name: "one", trace: &trace}).Build(),
		traits.NewBuilder("two").AddEffect(&recordingEffect{name: "two", trace: &trace}).Build(),
	)
	ada := newCharacter("ada")
	require.NoError(t, m.Attach(ada, "one"))
	require.NoError(t, m.Attach(ada, "two"))

	require.NoError(t, m.DetachAll(ada))
	assert.Equal(t, 0, ada.Traits.Len())
	assert.Equal(t, []string{"apply one", "apply two", "remove two", "remove one"}, trace)
}

func TestManager_GrantedTraits(t *testing.T) {
	kind := traits.NewBuilder("kind").AddEffect(buff(stats.Kindness, 10, stats.Flat)).Build()
	saint := traits.NewBuilder("saint").AddEffect(&effects.AddTrait{Trait: "kind"}).Build()

	t.Run("independently attached trait survives", func(t *testing.T) {
		m := newManager(t, kind, saint)
		ada := newCharacter("ada")

		require.NoError(t, m.Attach(ada, "kind"))
		require.NoError(t, m.Attach(ada, "saint"))
		require.NoError(t, m.Detach(ada, "saint"))

		assert.True(t, ada.HasTrait("kind"))
		kindness, _ := ada.GetStat(stats.Kindness)
		assert.Equal(t, 10.0, kindness.Value())
	})

	t.Run("granted trait leaves with its grant", func(t *testing.T) {
		m := newManager(t, kind, saint)
		ada := newCharacter("ada")

		require.NoError(t, m.Attach(ada, "saint"))
		assert.True(t, ada.HasTrait("kind"))

		require.NoError(t, m.Detach(ada, "saint"))
		assert.False(t, ada.HasTrait("kind"))
		kindness, _ := ada.GetStat(stats.Kindness)
		assert.Empty(t, kindness.Modifiers())
	})
}

type testListener struct {
	id      string
	handler func(events.Event) error
}

func (l *testListener) ID() string                       { return l.id }
func (l *testListener) Priority() int                    { return events.PriorityObserver }
func (l *testListener) HandleEvent(e events.Event) error { return l.handler(e) }
