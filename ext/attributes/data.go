package attributes

import (
	"math"
)

// Info describes an attribute
type Info struct {
	Abbr        string
	Title       string
	Description string
	Min         int64
	Max         int64
}

// Names of all attributes in display order
var Names = []string{
	"strength",
	"reflex",
	"agility",
	"charisma",
	"discipline",
	"wisdom",
	"intelligence",
	"stamina",
}

var infos = map[string]Info{
	"strength":     {"STR", "Strength", "Physical power, melee damage, carrying capacity", 2, 255},
	"reflex":       {"REF", "Reflex", "Reaction speed, evasion, reflex saves", 2, 255},
	"agility":      {"AGI", "Agility", "Coordination, weapon accuracy, dodge ability", 2, 255},
	"charisma":     {"CHA", "Charisma", "Social influence, prices, spirit duration", 2, 255},
	"discipline":   {"DIS", "Discipline", "Mental focus, status resistance, magic accuracy", 2, 255},
	"wisdom":       {"WIS", "Wisdom", "Learning speed, magic damage, willpower", 2, 255},
	"intelligence": {"INT", "Intelligence", "Experience pool size, spell damage, mental capacity", 2, 255},
	"stamina":      {"STA", "Stamina", "Health, endurance, physical resilience", 2, 255},
}

const (
	// Baseline is the average human attribute value
	Baseline = 10
	// RacialVariance is how far rolled starting values differ from racial bases
	RacialVariance = 4
	// StartingTDP is the TDP of a character with baseline attributes
	StartingTDP = 500
	// TDPPerLevel is the TDP granted per level
	TDPPerLevel = 150
)

// GetInfo returns the description of the named attribute
func GetInfo(name string) (Info, bool) {
	info, ok := infos[name]
	return info, ok
}

// Clamp returns value limited to the valid range of the attribute.
// Unknown attributes clamp to Baseline.
func Clamp(name string, value int64) int64 {
	info, ok := infos[name]
	if !ok {
		return Baseline
	}
	return max(info.Min, min(info.Max, value))
}

// TDPCost returns the TDP needed to train an attribute from current to desired.
//
// Points below 50 cost 2 to 50 TDP each, points from 50 to 74 cost 50 to 300, and every point above costs 300.
func TDPCost(current, desired int64) int64 {
	var total int64
	for value := current; value < desired; value++ {
		switch {
		case value < 50:
			total += 2 + int64(math.Pow(float64(value)/50, 2)*48)
		case value < 75:
			total += 50 + int64(math.Pow(float64(value-50)/25, 3)*250)
		default:
			total += 300
		}
	}
	return total
}

// StartingTDPFor returns the starting TDP of a character with the attribute values.
//
// Every 2 points below baseline grant 50 TDP, every 2 points above cost 50.
func StartingTDPFor(values map[string]int64) int64 {
	var deviation int64
	for _, value := range values {
		deviation += Baseline - value
	}
	return StartingTDP + floorDiv(deviation, 2)*50
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MaxHP returns the maximum health points
func MaxHP(strength, discipline, stamina int64) int64 {
	return int64(math.Ceil(float64(stamina) + float64(strength+discipline)*0.125))
}

// MaxSP returns the maximum spell points
func MaxSP(intelligence, discipline, wisdom int64) int64 {
	return int64(math.Ceil(float64(intelligence) + float64(discipline+wisdom)*0.25))
}

// MaxEP returns the maximum energy points
func MaxEP(stamina, discipline, reflex, strength, agility int64) int64 {
	return int64(math.Ceil(float64(stamina) + float64(discipline+reflex+strength+agility)*0.125))
}

// CarryingCapacity returns how much weight a character can carry
func CarryingCapacity(strength, stamina int64) int64 {
	return strength*10 + stamina*5
}

// SkillModifier returns the multiplier an attribute value applies to skill checks, between 0.5 and 2
func SkillModifier(value int64) float64 {
	modifier := 1.0 + float64(value-Baseline)*0.01
	return max(0.5, min(2.0, modifier))
}
