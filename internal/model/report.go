package model

// FlagRecord is the per-response outcome of checking claims against ground truth.
// Created once by the validator and never mutated afterwards.
type FlagRecord struct {
	WrongRecord      bool   `json:"wrong_record" db:"wrong_record"`
	WrongGoalDiff    bool   `json:"wrong_goal_diff" db:"wrong_goal_diff"`
	ClaimsDominant   bool   `json:"claims_dominant" db:"claims_dominant"`
	ClaimsDisastrous bool   `json:"claims_disastrous" db:"claims_disastrous"`
	ResponseID       string `json:"response_id" db:"response_id"`
	ConditionID      string `json:"condition_id" db:"condition_id"`
	ModelName        string `json:"model_name" db:"model_name"`
}

// AnyFlag reports whether at least one of the four base flags is set
func (f FlagRecord) AnyFlag() bool {
	return f.WrongRecord || f.WrongGoalDiff || f.ClaimsDominant || f.ClaimsDisastrous
}

// RateRecord holds fabrication/contradiction rates for one (condition, model) group
type RateRecord struct {
	ConditionID      string  `json:"condition_id" db:"condition_id"`
	ModelName        string  `json:"model_name" db:"model_name"`
	WrongRecord      float64 `json:"wrong_record" db:"wrong_record"`
	WrongGoalDiff    float64 `json:"wrong_goal_diff" db:"wrong_goal_diff"`
	ClaimsDominant   float64 `json:"claims_dominant" db:"claims_dominant"`
	ClaimsDisastrous float64 `json:"claims_disastrous" db:"claims_disastrous"`
	AnyFlag          float64 `json:"any_flag" db:"any_flag"`
	Responses        int     `json:"responses" db:"responses"` // Group size
}

// SentimentRecord holds sentiment scores for one response
type SentimentRecord struct {
	ResponseID  string  `json:"response_id"`
	ConditionID string  `json:"condition_id"`
	ModelName   string  `json:"model_name"`
	Compound    float64 `json:"compound"` // Normalised valence in [-1, 1]
	Pos         float64 `json:"pos"`
	Neu         float64 `json:"neu"`
	Neg         float64 `json:"neg"`
}

// EntityMention counts how often a named entity is mentioned in one (condition, model) group
type EntityMention struct {
	ConditionID  string  `json:"condition_id"`
	ModelName    string  `json:"model_name"`
	Entity       string  `json:"entity"`
	MentionCount int     `json:"mention_count"`
	MentionRate  float64 `json:"mention_rate"`
	Responses    int     `json:"responses"`
}

// RecommendationTags records which recommendation focus keywords a response uses
type RecommendationTags struct {
	ResponseID  string `json:"response_id"`
	ConditionID string `json:"condition_id"`
	ModelName   string `json:"model_name"`
	Offense     bool   `json:"offense"`
	Defense     bool   `json:"defense"`
	Team        bool   `json:"team"`
	Individual  bool   `json:"individual"`
}

// TTestResult is a Welch two-sample t-test between two conditions
type TTestResult struct {
	Comparison string  `json:"comparison"`
	ConditionA string  `json:"condition_a"`
	ConditionB string  `json:"condition_b"`
	NA         int     `json:"n_a"`
	NB         int     `json:"n_b"`
	MeanA      float64 `json:"mean_a"`
	MeanB      float64 `json:"mean_b"`
	TStat      float64 `json:"t_stat"`
	PValue     float64 `json:"p_value"`
	CohenD     float64 `json:"cohen_d"`
}

// ChiSquareResult is a chi-square test of independence with its effect size
type ChiSquareResult struct {
	Test     string  `json:"test"`
	Chi2     float64 `json:"chi2"`
	PValue   float64 `json:"p_value"`
	DoF      int     `json:"dof"`
	CramersV float64 `json:"cramers_v"`
}

// SentimentSummary holds mean sentiment for a condition, or for a
// (condition, model) group when ModelName is set
type SentimentSummary struct {
	ConditionID string  `json:"condition_id"`
	ModelName   string  `json:"model_name,omitempty"`
	Compound    float64 `json:"compound"`
	Pos         float64 `json:"pos"`
	Neu         float64 `json:"neu"`
	Neg         float64 `json:"neg"`
	Responses   int     `json:"responses"`
}

// FocusRate holds the share of responses using each recommendation focus,
// per condition or per (condition, model) when ModelName is set
type FocusRate struct {
	ConditionID string  `json:"condition_id"`
	ModelName   string  `json:"model_name,omitempty"`
	Offense     float64 `json:"offense"`
	Defense     float64 `json:"defense"`
	Team        float64 `json:"team"`
	Individual  float64 `json:"individual"`
	Responses   int     `json:"responses"`
}
