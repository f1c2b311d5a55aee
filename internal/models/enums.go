package models

import (
	"fmt"
	"strings"
)

// PlantLocation is where the plant lives.
type PlantLocation string

const (
	LocationIndoor  PlantLocation = "indoor"
	LocationOutdoor PlantLocation = "outdoor"
)

// LightLevel is the light exposure a plant receives.
type LightLevel string

const (
	LightDirect   LightLevel = "direct"
	LightIndirect LightLevel = "indirect"
	LightShade    LightLevel = "shade"
)

// ContainerType is what the plant is grown in.
type ContainerType string

const (
	ContainerPot       ContainerType = "pot"
	ContainerGround    ContainerType = "ground"
	ContainerWaterVase ContainerType = "water_vase"
)

// CareType is the kind of action recorded in a plant's care history.
type CareType string

const (
	CareWatering      CareType = "watering"
	CareFertilizing   CareType = "fertilizing"
	CarePruning       CareType = "pruning"
	CareTransplanting CareType = "transplanting"
	CareObservation   CareType = "observation"
)

var (
	AllLocations   = []PlantLocation{LocationIndoor, LocationOutdoor}
	AllLightLevels = []LightLevel{LightDirect, LightIndirect, LightShade}
	AllContainers  = []ContainerType{ContainerPot, ContainerGround, ContainerWaterVase}
	AllCareTypes   = []CareType{CareWatering, CareFertilizing, CarePruning, CareTransplanting, CareObservation}
)

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseLocation parses a location name (case-insensitive).
func ParseLocation(s string) (PlantLocation, error) {
	for _, l := range AllLocations {
		if normalize(s) == string(l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid location %q (expected indoor|outdoor)", s)
}

// ParseLightLevel parses a light level name (case-insensitive).
func ParseLightLevel(s string) (LightLevel, error) {
	for _, l := range AllLightLevels {
		if normalize(s) == string(l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid light level %q (expected direct|indirect|shade)", s)
}

// ParseContainer parses a container name. "vase" is accepted as an alias of water_vase.
func ParseContainer(s string) (ContainerType, error) {
	n := normalize(s)
	if n == "vase" || n == "watervase" {
		return ContainerWaterVase, nil
	}
	for _, c := range AllContainers {
		if n == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid container %q (expected pot|ground|water_vase)", s)
}

// ParseCareType parses a care type name (case-insensitive).
func ParseCareType(s string) (CareType, error) {
	for _, c := range AllCareTypes {
		if normalize(s) == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid care type %q (expected watering|fertilizing|pruning|transplanting|observation)", s)
}

func (l PlantLocation) Valid() bool {
	_, err := ParseLocation(string(l))
	return err == nil
}

func (l LightLevel) Valid() bool {
	_, err := ParseLightLevel(string(l))
	return err == nil
}

func (c ContainerType) Valid() bool {
	return c == ContainerPot || c == ContainerGround || c == ContainerWaterVase
}

func (c CareType) Valid() bool {
	_, err := ParseCareType(string(c))
	return err == nil
}

// Label returns the display name of the container.
func (c ContainerType) Label() string {
	switch c {
	case ContainerPot:
		return "Pot"
	case ContainerGround:
		return "Ground"
	case ContainerWaterVase:
		return "Water vase"
	default:
		return string(c)
	}
}

// Label returns the display name of the light level.
func (l LightLevel) Label() string {
	switch l {
	case LightDirect:
		return "Direct light"
	case LightIndirect:
		return "Indirect light"
	case LightShade:
		return "Shade"
	default:
		return string(l)
	}
}
