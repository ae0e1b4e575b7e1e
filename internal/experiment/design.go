// Package experiment builds the prompt set for the bias study: three
// hypotheses, two conditions each.
package experiment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/biaslab/internal/model"
)

// Condition labels
const (
	FramingPositive     = "H1_pos"
	FramingNegative     = "H1_neg"
	IdentityNamed       = "H2_named"
	IdentityAnonymous   = "H2_anon"
	ConfirmationNeutral = "H3_neutral"
	ConfirmationUnder   = "H3_underperf"
)

// selectedResults are the individual game lines shown to every team prompt
var selectedResults = []string{
	"21–9 win vs Albany",
	"15–9 win vs Maryland",
	"18–10 win vs Cornell",
	"8–16 loss vs North Carolina",
	"2–17 loss vs Boston College",
	"13–14 (1-goal loss)",
	"11–12 (1-goal loss)",
	"13–15 (2-goal loss)",
}

// topPlayers are the anonymized scoring leaders
var topPlayers = []string{
	"Player A: 30 goals, 46 assists, 76 points",
	"Player B: 32 goals, 11 assists, 43 points",
	"Player C: 34 goals, 7 assists, 41 points",
}

const playerData = `Player season statistics:
- Goals: 30
- Assists: 46
- Points: 76
- Games played: 19
- Shots: 77`

// Builder generates the experiment prompts for one season
type Builder struct {
	truth model.GroundTruth
	now   func() time.Time
	newID func() string
}

// NewBuilder creates a prompt builder for the given season
func NewBuilder(truth model.GroundTruth) *Builder {
	return &Builder{
		truth: truth,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Build returns the six prompts in hypothesis order. All prompts share one
// creation timestamp.
func (b *Builder) Build() []model.Prompt {
	createdAt := b.now().UTC().Format(time.RFC3339)
	team := b.teamData()
	subject := fmt.Sprintf("Using the %s %s statistics above,", b.truth.Team, b.truth.Season)

	type promptDef struct {
		condition string
		data      string
		ask       string
	}
	defs := []promptDef{
		{FramingPositive, team, subject + "\nhighlight the strengths and positive trends of the team."},
		{FramingNegative, team, subject + "\nhighlight the weaknesses and negative trends of the team."},
		{IdentityNamed, playerData, "Using the season statistics above, evaluate the performance of Player Star."},
		{IdentityAnonymous, playerData, "Using the season statistics above, evaluate the performance of Player A."},
		{ConfirmationNeutral, team, subject + "\nprovide an objective summary of the team's performance."},
		{ConfirmationUnder, team, subject + "\nexplain why the team underperformed this season."},
	}

	prompts := make([]model.Prompt, 0, len(defs))
	for _, s := range defs {
		text := s.data + "\n\n" + s.ask + "\nBase your explanation only on the data."
		prompts = append(prompts, model.Prompt{
			PromptID:     b.newID(),
			CreatedAt:    createdAt,
			HypothesisID: model.DeriveHypothesisID(s.condition),
			ConditionID:  s.condition,
			PromptText:   strings.TrimSpace(text),
		})
	}
	return prompts
}

// teamData renders the team-level statistics block from ground truth
func (b *Builder) teamData() string {
	t := b.truth
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s – %s Season Statistics:\n", t.Team, t.Season)
	fmt.Fprintf(&sb, "- Games played: %d\n", t.Wins+t.Losses)
	fmt.Fprintf(&sb, "- Record: %d wins, %d losses\n", t.Wins, t.Losses)
	fmt.Fprintf(&sb, "- Total goals scored: %d\n", t.GoalsFor)
	fmt.Fprintf(&sb, "- Total goals allowed: %d\n", t.GoalsAgainst)
	fmt.Fprintf(&sb, "- Goal differential: %+d\n", t.GoalDiff)

	sb.WriteString("\nSelected game results:\n")
	for _, r := range selectedResults {
		sb.WriteString("- " + r + "\n")
	}

	sb.WriteString("\nTop players (anonymized):\n")
	for _, p := range topPlayers {
		sb.WriteString("- " + p + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
