// Package skillsaux attaches skill slots and custom verbs to objects.
//
// Each object has SkillSlots skill slots naming the skills that gain experience when the object is used,
// one of them active, and any number of verbs players can use on the object. Verbs may have limited
// charges and a cooldown.
package skillsaux

import (
	"sort"
	"strconv"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
)

const (
	// Name is the auxiliary name of skills and verbs
	Name = "skills_verbs"
	// SkillSlots is the number of skill slots of an object
	SkillSlots = 5
	// UnlimitedCharges marks verbs which can be used without limit
	UnlimitedCharges = -1
)

// Verb is a custom action on an object
type Verb struct {
	Name     string
	Script   string
	Charges  int64 // remaining uses, or UnlimitedCharges
	Cooldown time.Duration
	LastUsed time.Time
}

// SkillsVerbs is the skills and verbs data of one object
type SkillsVerbs struct {
	skills     [SkillSlots]string
	activeSlot int
	verbs      map[string]*Verb
}

// New creates empty skills and verbs data
func New() *SkillsVerbs {
	return &SkillsVerbs{
		verbs: map[string]*Verb{},
	}
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < SkillSlots
}

// AssignSkill assigns skill to the slot. An empty skill clears the slot.
func (sv *SkillsVerbs) AssignSkill(slot int, skill string) {
	if !validSlot(slot) {
		gwlog.Warnf("%s: invalid skill slot %d", Name, slot)
		return
	}
	sv.skills[slot] = skill
}

// Skill returns the skill assigned to the slot
func (sv *SkillsVerbs) Skill(slot int) string {
	if !validSlot(slot) {
		return ""
	}
	return sv.skills[slot]
}

// ActiveSkillSlot returns the active skill slot
func (sv *SkillsVerbs) ActiveSkillSlot() int {
	return sv.activeSlot
}

// SetActiveSkillSlot changes the active skill slot. Invalid slots are ignored.
func (sv *SkillsVerbs) SetActiveSkillSlot(slot int) {
	if validSlot(slot) {
		sv.activeSlot = slot
	}
}

// ActiveSkill returns the skill in the active slot
func (sv *SkillsVerbs) ActiveSkill() string {
	return sv.skills[sv.activeSlot]
}

// AddVerb adds the verb, replacing any verb of the same name
func (sv *SkillsVerbs) AddVerb(verb string, script string, charges int64, cooldown time.Duration) {
	if verb == "" {
		return
	}
	sv.verbs[verb] = &Verb{
		Name:     verb,
		Script:   script,
		Charges:  charges,
		Cooldown: cooldown,
	}
}

// RemoveVerb removes the verb
func (sv *SkillsVerbs) RemoveVerb(verb string) {
	delete(sv.verbs, verb)
}

// Verb returns a copy of the named verb
func (sv *SkillsVerbs) Verb(verb string) (Verb, bool) {
	v, ok := sv.verbs[verb]
	if !ok {
		return Verb{}, false
	}
	return *v, true
}

// Verbs returns the names of all verbs in sorted order
func (sv *SkillsVerbs) Verbs() []string {
	names := make([]string, 0, len(sv.verbs))
	for name := range sv.verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OnCooldown returns if the verb was used less than its cooldown before now
func (sv *SkillsVerbs) OnCooldown(verb string, now time.Time) bool {
	v, ok := sv.verbs[verb]
	if !ok || v.Cooldown <= 0 {
		return false
	}
	return now.Sub(v.LastUsed) < v.Cooldown
}

// UseVerb consumes one charge of the verb and records the use time.
//
// It returns false if the verb does not exist or has no charges left. Cooldowns are checked by the caller.
func (sv *SkillsVerbs) UseVerb(verb string, now time.Time) bool {
	v, ok := sv.verbs[verb]
	if !ok {
		return false
	}
	if v.Charges != UnlimitedCharges {
		if v.Charges <= 0 {
			return false
		}
		v.Charges--
	}
	v.LastUsed = now
	return true
}

// Store implements auxiliary.Data
func (sv *SkillsVerbs) Store() *storageset.Set {
	set := storageset.New()
	skills := storageset.New()
	for slot, skill := range sv.skills {
		if skill != "" {
			skills.StoreString(strconv.Itoa(slot), skill)
		}
	}
	set.StoreSet("skills", skills)
	set.StoreInt("active_skill_slot", int64(sv.activeSlot))

	verbs := storageset.NewList()
	for _, name := range sv.Verbs() {
		v := sv.verbs[name]
		item := storageset.New()
		item.StoreString("verb", v.Name)
		item.StoreString("script", v.Script)
		item.StoreInt("charges", v.Charges)
		item.StoreInt("cooldown", int64(v.Cooldown/time.Second))
		if !v.LastUsed.IsZero() {
			item.StoreLong("last_used", v.LastUsed.Unix())
		}
		verbs.Add(item)
	}
	set.StoreList("verbs", verbs)
	return set
}

// Copy implements auxiliary.Data
func (sv *SkillsVerbs) Copy() auxiliary.Data {
	cp := New()
	sv.CopyTo(cp)
	return cp
}

// CopyTo implements auxiliary.Data
func (sv *SkillsVerbs) CopyTo(to auxiliary.Data) {
	dst := to.(*SkillsVerbs)
	dst.skills = sv.skills
	dst.activeSlot = sv.activeSlot
	dst.verbs = make(map[string]*Verb, len(sv.verbs))
	for name, v := range sv.verbs {
		cp := *v
		dst.verbs[name] = &cp
	}
}

// Read restores skills and verbs data from set
func Read(set *storageset.Set) (auxiliary.Data, error) {
	sv := New()
	skills := set.ReadSet("skills")
	for _, key := range skills.Keys() {
		slot, err := strconv.Atoi(key)
		if err != nil || !validSlot(slot) {
			gwlog.Warnf("%s: ignoring skill in slot %q", Name, key)
			continue
		}
		sv.skills[slot] = skills.ReadString(key)
	}
	sv.SetActiveSkillSlot(int(set.ReadInt("active_skill_slot")))

	for item := range set.ReadList("verbs").Sets() {
		name := item.ReadString("verb")
		if name == "" {
			continue
		}
		v := &Verb{
			Name:     name,
			Script:   item.ReadString("script"),
			Charges:  item.ReadInt("charges"),
			Cooldown: time.Duration(item.ReadInt("cooldown")) * time.Second,
		}
		if item.Contains("last_used") {
			v.LastUsed = time.Unix(item.ReadLong("last_used"), 0)
		}
		sv.verbs[name] = v
	}
	return sv, nil
}

// Descriptor describes the skills and verbs auxiliary, attached to objects only
func Descriptor() auxiliary.Descriptor {
	return auxiliary.Descriptor{
		Name:  Name,
		Kinds: auxiliary.Object,
		New: func() auxiliary.Data {
			return New()
		},
		Read: Read,
	}
}

// Install installs the skills and verbs auxiliary to the world
func Install() error {
	if err := auxiliary.Install(Descriptor()); err != nil {
		return err
	}
	gwlog.Infof("Skills and verbs auxiliary installed")
	return nil
}

// Get returns the skills and verbs data of the object, or nil for other entity kinds
func Get(h auxiliary.Holder) *SkillsVerbs {
	sv, _ := auxiliary.Default().Aux(h, Name).(*SkillsVerbs)
	return sv
}
