package assessment

import (
	"math"

	"skill-eval/internal/domain/skill"
)

// Weight is the share an incoming score of type t takes in the blended
// proficiency. Unknown types weigh like a self assessment.
func Weight(t Type) float64 {
	switch t {
	case TypeCertification:
		return 0.8
	case TypePeerReview:
		return 0.6
	case TypeAutomated:
		return 0.4
	default:
		return 0.3
	}
}

// Blend returns round(current*(1-w) + incoming*w) for the weight of t,
// clamped to the proficiency range.
func Blend(current, incoming int, t Type) int {
	w := Weight(t)
	v := math.Round(float64(current)*(1-w) + float64(incoming)*w)
	return skill.ClampProficiency(int(v))
}

// Blender returns a function blending any current proficiency with score.
func Blender(score int, t Type) func(current int) int {
	return func(current int) int {
		return Blend(current, score, t)
	}
}
