package uptake

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Race string

const (
	RaceWhite Race = "white"
	RaceBlack Race = "black"
	RaceOther Race = "other"
)

type IncomeLevel string

const (
	IncomeHigh  IncomeLevel = "high"
	IncomeOther IncomeLevel = "other"
)

// RespondentProfile holds the demographic covariates of one respondent.
// Range checks happen at the job boundary; the model takes values as given.
type RespondentProfile struct {
	Age        float64     `json:"age"`
	Gender     Gender      `json:"gender"`
	Race       Race        `json:"race"`
	Income     IncomeLevel `json:"income"`
	HasDegree  bool        `json:"degree"`
	GoodHealth bool        `json:"goodHealth"`
}

func (p RespondentProfile) female() float64     { return indicator(p.Gender == GenderFemale) }
func (p RespondentProfile) white() float64      { return indicator(p.Race == RaceWhite) }
func (p RespondentProfile) black() float64      { return indicator(p.Race == RaceBlack) }
func (p RespondentProfile) highIncome() float64 { return indicator(p.Income == IncomeHigh) }

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func ParseGender(v string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(v))); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", &ValidationError{Field: "gender", Reason: fmt.Sprintf("unsupported value %q", v)}
}

func ParseRace(v string) (Race, error) {
	switch r := Race(strings.ToLower(strings.TrimSpace(v))); r {
	case RaceWhite, RaceBlack, RaceOther:
		return r, nil
	}
	return "", &ValidationError{Field: "race", Reason: fmt.Sprintf("unsupported value %q", v)}
}

func ParseIncomeLevel(v string) (IncomeLevel, error) {
	switch i := IncomeLevel(strings.ToLower(strings.TrimSpace(v))); i {
	case IncomeHigh, IncomeOther:
		return i, nil
	}
	return "", &ValidationError{Field: "income", Reason: fmt.Sprintf("unsupported value %q", v)}
}

// ParseYesNo reads the "yes"/"no" answers used for the degree and health questions.
func ParseYesNo(field, v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, &ValidationError{Field: field, Reason: fmt.Sprintf("expected yes or no, got %q", v)}
}
