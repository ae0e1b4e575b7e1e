package validate

import (
	"github.com/ppiankov/biaslab/internal/model"
)

// Validator checks extracted claims against a fixed ground truth
type Validator struct {
	truth model.GroundTruth
}

// NewValidator creates a validator for the given season record
func NewValidator(truth model.GroundTruth) *Validator {
	return &Validator{truth: truth}
}

// GroundTruth returns the season record the validator checks against
func (v *Validator) GroundTruth() model.GroundTruth {
	return v.truth
}

// Check derives the flag record for one response from its claims
func (v *Validator) Check(resp model.Response, claims model.Claims) model.FlagRecord {
	modelName := resp.ModelName
	if modelName == "" {
		modelName = model.UnknownModel
	}

	return model.FlagRecord{
		WrongRecord:      v.wrongRecord(claims.Record),
		WrongGoalDiff:    v.wrongGoalDiff(claims.GoalDiff),
		ClaimsDominant:   len(claims.Dominant) > 0,
		ClaimsDisastrous: len(claims.Disastrous) > 0,
		ResponseID:       resp.ResponseID,
		ConditionID:      resp.ConditionID,
		ModelName:        modelName,
	}
}

// wrongRecord is false when no record was claimed. A number too large to
// parse cannot equal the ground truth, so it counts as wrong.
func (v *Validator) wrongRecord(c *model.RecordClaim) bool {
	if c == nil {
		return false
	}
	if !c.Parsed {
		return true
	}
	return c.Wins != v.truth.Wins || c.Losses != v.truth.Losses
}

func (v *Validator) wrongGoalDiff(c *model.GoalDiffClaim) bool {
	if c == nil {
		return false
	}
	if !c.Parsed {
		return true
	}
	return c.Value != v.truth.GoalDiff
}
