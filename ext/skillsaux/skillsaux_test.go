package skillsaux

import (
	"testing"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
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

	obj := &holder{kind: auxiliary.Object}
	room := &holder{kind: auxiliary.Room}
	r.AttachDefaults(obj)
	r.AttachDefaults(room)
	assert.NotNil(t, Get(obj))
	assert.Nil(t, Get(room))
}

func TestSkills(t *testing.T) {
	sv := New()
	sv.AssignSkill(0, "swords")
	sv.AssignSkill(3, "parry")
	sv.AssignSkill(5, "invalid")
	assert.Equal(t, "swords", sv.Skill(0))
	assert.Equal(t, "", sv.Skill(-1))
	assert.Equal(t, "swords", sv.ActiveSkill())

	sv.SetActiveSkillSlot(3)
	sv.SetActiveSkillSlot(7)
	assert.Equal(t, 3, sv.ActiveSkillSlot())
	assert.Equal(t, "parry", sv.ActiveSkill())
}

func TestVerbs(t *testing.T) {
	sv := New()
	sv.AddVerb("zap", "wand.zap", 2, 10*time.Second)
	sv.AddVerb("read", "scroll.read", UnlimitedCharges, 0)
	sv.AddVerb("", "ignored", 1, 0)
	assert.Equal(t, []string{"read", "zap"}, sv.Verbs())

	now := time.Unix(1000, 0)
	assert.False(t, sv.OnCooldown("zap", now))
	assert.True(t, sv.UseVerb("zap", now))
	assert.True(t, sv.OnCooldown("zap", now.Add(5*time.Second)))
	assert.False(t, sv.OnCooldown("zap", now.Add(10*time.Second)))
	assert.True(t, sv.UseVerb("zap", now.Add(20*time.Second)))
	assert.False(t, sv.UseVerb("zap", now.Add(40*time.Second)), "no charges left")

	for i := 0; i < 3; i++ {
		assert.True(t, sv.UseVerb("read", now))
	}
	assert.False(t, sv.OnCooldown("read", now))
	v, ok := sv.Verb("read")
	require.True(t, ok)
	assert.Equal(t, int64(UnlimitedCharges), v.Charges)

	sv.RemoveVerb("zap")
	_, ok = sv.Verb("zap")
	assert.False(t, ok)
	assert.False(t, sv.UseVerb("zap", now))
}

func TestPersistence(t *testing.T) {
	sv := New()
	sv.AssignSkill(1, "daggers")
	sv.SetActiveSkillSlot(1)
	sv.AddVerb("stab", "dagger.stab", 5, time.Minute)
	sv.UseVerb("stab", time.Unix(5000, 0))
	sv.AddVerb("polish", "dagger.polish", UnlimitedCharges, 0)

	set := sv.Store()
	assert.Equal(t, 2, set.ReadList("verbs").Len())

	text := storageset.Marshal(set)
	parsed, err := storageset.Unmarshal(text)
	require.NoError(t, err)
	restored, err := Read(parsed)
	require.NoError(t, err)
	assert.Equal(t, sv, restored)

	cp := sv.Copy().(*SkillsVerbs)
	cp.UseVerb("stab", time.Unix(6000, 0))
	v, _ := sv.Verb("stab")
	assert.Equal(t, int64(4), v.Charges)

	dst := New()
	dst.AddVerb("other", "", 1, 0)
	sv.CopyTo(dst)
	assert.Equal(t, sv, dst)
}

func TestReadMalformed(t *testing.T) {
	set := storageset.New()
	skills := storageset.New()
	skills.StoreString("9", "too far")
	skills.StoreString("x", "not a slot")
	skills.StoreString("2", "bows")
	set.StoreSet("skills", skills)
	set.StoreInt("active_skill_slot", 12)
	verbs := storageset.NewList()
	verbs.Add(storageset.New())
	set.StoreList("verbs", verbs)

	d, err := Read(set)
	require.NoError(t, err)
	sv := d.(*SkillsVerbs)
	assert.Equal(t, "bows", sv.Skill(2))
	assert.Equal(t, 0, sv.ActiveSkillSlot())
	assert.Empty(t, sv.Verbs())
}
