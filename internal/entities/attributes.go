package entities

import (
	"strings"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// Sex of a character
type Sex int

const (
	SexNotSpecified Sex = iota
	SexMale
	SexFemale
)

var sexNames = []string{"NOT_SPECIFIED", "MALE", "FEMALE"}

func (s Sex) String() string {
	if int(s) < len(sexNames) && s >= 0 {
		return sexNames[s]
	}
	return "UNKNOWN"
}

// ParseSex reads an authored sex name such as "FEMALE"
func ParseSex(s string) (Sex, error) {
	for i, name := range sexNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Sex(i), nil
		}
	}
	return 0, simerr.Validationf("unknown sex %q", s).WithMeta("sex", s)
}

// LifeStage of a character. Stages are ordered so they can be compared.
type LifeStage int

const (
	LifeStageChild LifeStage = iota
	LifeStageAdolescent
	LifeStageYoungAdult
	LifeStageAdult
	LifeStageSenior
)

var lifeStageNames = []string{"CHILD", "ADOLESCENT", "YOUNG_ADULT", "ADULT", "SENIOR"}

func (l LifeStage) String() string {
	if int(l) < len(lifeStageNames) && l >= 0 {
		return lifeStageNames[l]
	}
	return "UNKNOWN"
}

// ParseLifeStage reads an authored life stage name such as "YOUNG_ADULT"
func ParseLifeStage(s string) (LifeStage, error) {
	for i, name := range lifeStageNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return LifeStage(i), nil
		}
	}
	return 0, simerr.Validationf("unknown life stage %q", s).WithMeta("life_stage", s)
}
