package attributes

import (
	"math/rand"
	"testing"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holder struct {
	kind auxiliary.Kind
	aux  *auxiliary.Table
}

func (h *holder) AuxKind() auxiliary.Kind           { return h.kind }
func (h *holder) Auxiliaries() *auxiliary.Table      { return h.aux }
func (h *holder) SetAuxiliaries(t *auxiliary.Table) { h.aux = t }

func TestInstall(t *testing.T) {
	auxiliary.Teardown()
	r := auxiliary.Initialize()
	defer auxiliary.Teardown()
	require.NoError(t, Install())
	assert.Error(t, Install())

	ch := &holder{kind: auxiliary.Character}
	obj := &holder{kind: auxiliary.Object}
	r.AttachDefaults(ch)
	r.AttachDefaults(obj)
	require.NotNil(t, Get(ch))
	assert.Nil(t, Get(obj))

	v, ok := Get(ch).Get("wisdom")
	assert.True(t, ok)
	assert.Equal(t, int64(Baseline), v)
}

func TestSetAndModify(t *testing.T) {
	a := New()
	assert.True(t, a.Set("strength", 300))
	v, _ := a.Get("strength")
	assert.Equal(t, int64(255), v)
	assert.Equal(t, int64(2), a.Modify("agility", -50))
	assert.False(t, a.Set("luck", 5))
	assert.Equal(t, int64(0), a.Modify("luck", 1))
	_, ok := a.Get("luck")
	assert.False(t, ok)
	assert.Len(t, a.All(), len(Names))
}

func TestTrain(t *testing.T) {
	a := New()
	_, err := a.Train("strength", 2)
	assert.Equal(t, ErrNotEnoughTDP, errors.Cause(err))

	a.AddTDP(10)
	cost, err := a.Train("strength", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cost)
	v, _ := a.Get("strength")
	assert.Equal(t, int64(12), v)
	assert.Equal(t, int64(3), a.TDPAvailable)
	assert.Equal(t, int64(7), a.TDPSpent)

	_, err = a.Train("luck", 1)
	assert.Equal(t, ErrUnknownAttribute, errors.Cause(err))
	assert.False(t, a.SpendTDP(4))
	assert.True(t, a.SpendTDP(3))
}

func TestTDPCost(t *testing.T) {
	assert.Equal(t, int64(3), TDPCost(10, 11))
	assert.Equal(t, int64(7), TDPCost(10, 12))
	assert.Equal(t, int64(50), TDPCost(50, 51))
	assert.Equal(t, int64(271), TDPCost(74, 75))
	assert.Equal(t, int64(600), TDPCost(80, 82))
	assert.Equal(t, int64(0), TDPCost(12, 10))
}

func TestStartingTDP(t *testing.T) {
	values := New().All()
	assert.Equal(t, int64(500), StartingTDPFor(values))
	values["strength"] = 7
	assert.Equal(t, int64(550), StartingTDPFor(values))
	values["strength"] = 13
	assert.Equal(t, int64(400), StartingTDPFor(values))
}

func TestInitializeForRace(t *testing.T) {
	a := New()
	a.InitializeForRace(map[string]int64{"strength": 20}, rand.New(rand.NewSource(1)))
	assert.True(t, a.Initialized)
	for _, name := range Names {
		v, _ := a.Get(name)
		base := int64(Baseline)
		if name == "strength" {
			base = 20
		}
		assert.True(t, v >= base-RacialVariance && v <= base+RacialVariance, "%s = %d", name, v)
	}
	assert.Equal(t, StartingTDPFor(a.All()), a.TDPAvailable)
}

func TestDerivedStats(t *testing.T) {
	assert.Equal(t, int64(13), New().MaxHP())
	assert.Equal(t, int64(15), MaxSP(10, 10, 10))
	assert.Equal(t, int64(15), MaxEP(10, 10, 10, 10, 10))
	assert.Equal(t, int64(150), CarryingCapacity(10, 10))
	assert.Equal(t, 1.0, SkillModifier(10))
	assert.Equal(t, 2.0, SkillModifier(200))
	assert.Equal(t, 0.5, SkillModifier(-100))

	info, ok := GetInfo("stamina")
	require.True(t, ok)
	assert.Equal(t, "STA", info.Abbr)
	assert.Equal(t, int64(Baseline), Clamp("luck", 99))
}

func TestPersistence(t *testing.T) {
	a := New()
	a.Set("wisdom", 42)
	a.AddTDP(100)
	a.SpendTDP(30)
	a.Initialized = true

	set := a.Store()
	restored, err := Read(set)
	require.NoError(t, err)
	assert.Equal(t, a, restored)
	assert.True(t, set.Equal(restored.Store()))

	cp := a.Copy().(*Attributes)
	cp.Set("wisdom", 3)
	v, _ := a.Get("wisdom")
	assert.Equal(t, int64(42), v)

	dst := New()
	a.CopyTo(dst)
	assert.Equal(t, a, dst)

	// partial data keeps baselines
	partial, err := Read(set.ReadSet("absent"))
	require.NoError(t, err)
	assert.Equal(t, New(), partial)
}
