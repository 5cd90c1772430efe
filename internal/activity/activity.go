/*
Package activity classifies a day's activity reading against fixed goals
and builds the prompts sent to the language model.
*/
package activity

import (
	"fmt"

	"AINutritionist/internal/utility"
)

// Daily activity goals. A reading below either one counts as slacking.
const (
	StepsGoal    = 5000
	CaloriesGoal = 2000
)

// TipPrompt is the fixed prompt behind the "Get Today's Tip" action.
const TipPrompt = "Give me a motivational tip for staying healthy."

// Reading is one sampled record of daily activity data.
// A nil field means the value was absent from the source row.
type Reading struct {
	Steps    *float64 `json:"steps"`
	Calories *float64 `json:"calories"`
}

// Verdict is the classification of a Reading against the daily goals.
type Verdict struct {
	Slacking bool    `json:"slacking"`
	Steps    float64 `json:"steps"`
	Calories float64 `json:"calories"`
}

// NewReading builds a Reading with both values present.
func NewReading(steps, calories float64) Reading {
	return Reading{Steps: &steps, Calories: &calories}
}

// Evaluate maps a reading to a verdict. Absent values are treated as 0,
// so a reading missing either value is always slacking.
func Evaluate(r Reading) Verdict {
	steps := valueOrZero(r.Steps)
	calories := valueOrZero(r.Calories)

	return Verdict{
		Slacking: steps < StepsGoal || calories < CaloriesGoal,
		Steps:    steps,
		Calories: calories,
	}
}

// Prompt builds the question sent to the language model for a verdict.
func Prompt(v Verdict) string {
	base := fmt.Sprintf(
		"I have taken %s steps and burned %s calories today.",
		utility.FormatNumber(v.Steps),
		utility.FormatNumber(v.Calories),
	)

	if v.Slacking {
		return base + " What can I do to improve?"
	}
	return base + " What should I keep doing to stay on track?"
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
