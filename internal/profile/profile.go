// Package profile collects and validates the user's physical profile and
// preferences, and encodes it for the plan-generation service.
package profile

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/zjrosen/fitcoach/internal/api"
)

// Form field keys, in display order.
const (
	FieldWeight            = "weight"
	FieldHeight            = "height"
	FieldGender            = "gender"
	FieldAge               = "age"
	FieldHypertension      = "hypertension"
	FieldDiabetes          = "diabetes"
	FieldFitnessGoal       = "fitness_goal"
	FieldWorkoutPreference = "workout_preference"
	FieldWorkoutLocation   = "workout_location"
	FieldDuration          = "duration"
	FieldExperienceLevel   = "experience_level"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldWeight, FieldHeight, FieldGender, FieldAge,
	FieldHypertension, FieldDiabetes, FieldFitnessGoal,
	FieldWorkoutPreference, FieldWorkoutLocation, FieldDuration,
	FieldExperienceLevel,
}

// Gender of the user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// WorkoutPreference is the kind of training the user wants.
type WorkoutPreference string

const (
	PreferenceStrength WorkoutPreference = "strength"
	PreferenceCardio   WorkoutPreference = "cardio"
	PreferenceMix      WorkoutPreference = "mix"
)

// WorkoutLocation is where the user trains.
type WorkoutLocation string

const (
	LocationGym  WorkoutLocation = "gym"
	LocationHome WorkoutLocation = "home"
)

// ExperienceLevel is the user's training experience.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelExpert       ExperienceLevel = "expert"
)

// Options returns the allowed values for an enum field, or nil for free
// fields. Used by the form to cycle choices.
func Options(field string) []string {
	switch field {
	case FieldGender:
		return []string{string(GenderMale), string(GenderFemale)}
	case FieldHypertension, FieldDiabetes:
		return []string{"no", "yes"}
	case FieldWorkoutPreference:
		return []string{string(PreferenceStrength), string(PreferenceCardio), string(PreferenceMix)}
	case FieldWorkoutLocation:
		return []string{string(LocationGym), string(LocationHome)}
	case FieldExperienceLevel:
		return []string{string(LevelBeginner), string(LevelIntermediate), string(LevelExpert)}
	}
	return nil
}

// Numeric ranges, inclusive.
const (
	MinWeight = 30.0
	MaxWeight = 300.0
	MinHeight = 100.0
	MaxHeight = 250.0
	MinAge    = 12
	MaxAge    = 100
)

// Profile is a fully validated user profile.
type Profile struct {
	Weight            float64 // kg
	Height            float64 // cm
	Gender            Gender
	Age               int
	Hypertension      bool
	Diabetes          bool
	FitnessGoal       string
	WorkoutPreference WorkoutPreference
	WorkoutLocation   WorkoutLocation
	Duration          string
	ExperienceLevel   ExperienceLevel
}

// FieldErrors maps a field key to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

// Collect parses raw form values into a Profile. Every invalid or missing
// field is reported in the returned FieldErrors.
func Collect(fields map[string]string) (Profile, error) {
	errs := FieldErrors{}
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	var p Profile
	p.Weight = parseFloat(errs, FieldWeight, get(FieldWeight))
	p.Height = parseFloat(errs, FieldHeight, get(FieldHeight))
	p.Age = parseInt(errs, FieldAge, get(FieldAge))
	p.Gender = Gender(parseGender(errs, get(FieldGender)))
	p.Hypertension = parseBool(errs, FieldHypertension, get(FieldHypertension))
	p.Diabetes = parseBool(errs, FieldDiabetes, get(FieldDiabetes))
	p.FitnessGoal = get(FieldFitnessGoal)
	p.WorkoutPreference = WorkoutPreference(strings.ToLower(get(FieldWorkoutPreference)))
	p.WorkoutLocation = WorkoutLocation(strings.ToLower(get(FieldWorkoutLocation)))
	p.Duration = get(FieldDuration)
	p.ExperienceLevel = ExperienceLevel(strings.ToLower(get(FieldExperienceLevel)))

	// Range and enum checks only for fields that parsed.
	for k, v := range p.fieldErrors() {
		if _, seen := errs[k]; !seen {
			errs[k] = v
		}
	}

	if len(errs) > 0 {
		return Profile{}, errs
	}
	return p, nil
}

// Validate reports whether every field is present and in range.
func (p Profile) Validate() error {
	if errs := p.fieldErrors(); len(errs) > 0 {
		return errs
	}
	return nil
}

func (p Profile) fieldErrors() FieldErrors {
	errs := FieldErrors{}
	if p.Weight < MinWeight || p.Weight > MaxWeight {
		errs[FieldWeight] = fmt.Sprintf("must be between %g and %g", MinWeight, MaxWeight)
	}
	if p.Height < MinHeight || p.Height > MaxHeight {
		errs[FieldHeight] = fmt.Sprintf("must be between %g and %g", MinHeight, MaxHeight)
	}
	if p.Age < MinAge || p.Age > MaxAge {
		errs[FieldAge] = fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)
	}
	if !slices.Contains(Options(FieldGender), string(p.Gender)) {
		errs[FieldGender] = "must be male or female"
	}
	if p.FitnessGoal == "" {
		errs[FieldFitnessGoal] = "is required"
	}
	if !slices.Contains(Options(FieldWorkoutPreference), string(p.WorkoutPreference)) {
		errs[FieldWorkoutPreference] = "must be strength, cardio or mix"
	}
	if !slices.Contains(Options(FieldWorkoutLocation), string(p.WorkoutLocation)) {
		errs[FieldWorkoutLocation] = "must be gym or home"
	}
	if p.Duration == "" {
		errs[FieldDuration] = "is required"
	}
	if !slices.Contains(Options(FieldExperienceLevel), string(p.ExperienceLevel)) {
		errs[FieldExperienceLevel] = "must be beginner, intermediate or expert"
	}
	return errs
}

// BMI returns weight / height(m)^2 rounded to one decimal.
func (p Profile) BMI() float64 {
	if p.Height <= 0 {
		return 0
	}
	m := p.Height / 100
	return math.Round(p.Weight/(m*m)*10) / 10
}

// Request encodes the profile for the plan-generation service.
func (p Profile) Request() api.PlanRequest {
	gender := 0
	if p.Gender == GenderMale {
		gender = 1
	}
	return api.PlanRequest{
		Weight:            p.Weight,
		Height:            p.Height,
		BMI:               p.BMI(),
		Gender:            gender,
		Age:               p.Age,
		Hypertension:      yesNo(p.Hypertension),
		Diabetes:          yesNo(p.Diabetes),
		FitnessGoal:       p.FitnessGoal,
		WorkoutPreference: strings.ToLower(string(p.WorkoutPreference)),
		WorkoutLocation:   strings.ToLower(string(p.WorkoutLocation)),
		Duration:          p.Duration,
		ExperienceLevel:   strings.ToLower(string(p.ExperienceLevel)),
	}
}

func parseFloat(errs FieldErrors, key, raw string) float64 {
	if raw == "" {
		errs[key] = "is required"
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs[key] = "must be a number"
		return 0
	}
	return v
}

func parseInt(errs FieldErrors, key, raw string) int {
	if raw == "" {
		errs[key] = "is required"
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs[key] = "must be a whole number"
		return 0
	}
	return v
}

func parseGender(errs FieldErrors, raw string) string {
	switch strings.ToLower(raw) {
	case "":
		errs[FieldGender] = "is required"
		return ""
	case "male", "m", "1":
		return string(GenderMale)
	case "female", "f", "0":
		return string(GenderFemale)
	}
	errs[FieldGender] = "must be male or female"
	return ""
}

func parseBool(errs FieldErrors, key, raw string) bool {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "1":
		return true
	case "no", "n", "false", "0":
		return false
	case "":
		errs[key] = "is required"
	default:
		errs[key] = "must be yes or no"
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
