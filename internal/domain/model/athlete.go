// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for record parsing.
var (
	ErrInvalidSex    = errors.New("invalid sex")
	ErrInvalidSeason = errors.New("invalid season")
)

// Sex of an athlete as recorded in the source data.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Season of an Olympic Games.
type Season string

const (
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

// Medal outcome of one athlete-event participation.
type Medal string

const (
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
	MedalNone   Medal = ""
)

// AllMedals lists the medal categories in display order.
var AllMedals = []Medal{MedalGold, MedalSilver, MedalBronze}

// AllSeasons lists the seasons in display order.
var AllSeasons = []Season{SeasonSummer, SeasonWinter}

// Athlete is one athlete-event participation row. Age 0 means unknown.
type Athlete struct {
	Name   string
	Sex    Sex
	Age    int
	Season Season
	Year   int
	NOC    string
	Medal  Medal
}

// Indicators returns the one-hot medal columns of the record.
func (a Athlete) Indicators() (gold, silver, bronze int) {
	switch a.Medal {
	case MedalGold:
		return 1, 0, 0
	case MedalSilver:
		return 0, 1, 0
	case MedalBronze:
		return 0, 0, 1
	}
	return 0, 0, 0
}

// ParseSex accepts M or F (case-insensitive).
func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale, nil
	case "F":
		return SexFemale, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSex, s)
}

// ParseSeason accepts Summer or Winter (case-insensitive).
func ParseSeason(s string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summer":
		return SeasonSummer, nil
	case "winter":
		return SeasonWinter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeason, s)
}

// ParseMedal maps Gold, Silver and Bronze to their category; anything else,
// including NA and the empty string, means no medal.
func ParseMedal(s string) Medal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold":
		return MedalGold
	case "silver":
		return MedalSilver
	case "bronze":
		return MedalBronze
	}
	return MedalNone
}

// IsMedal reports whether m is one of the three medal categories.
func IsMedal(m Medal) bool {
	return m == MedalGold || m == MedalSilver || m == MedalBronze
}
