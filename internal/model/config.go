package model

import (
	"fmt"
	"time"
)

// Config is the complete biaslab configuration.
// Values flow defaults -> config file -> BIASLAB_* env -> CLI flags.
type Config struct {
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	GroundTruth  GroundTruth        `yaml:"ground_truth" mapstructure:"ground_truth"`
	Lexicons     Lexicons           `yaml:"lexicons" mapstructure:"lexicons"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Collect      CollectConfig      `yaml:"collect" mapstructure:"collect"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// InputConfig describes where collected responses live
type InputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Pattern   string `yaml:"pattern" mapstructure:"pattern"`       // Glob for run-numbered response files
	StripHTML bool   `yaml:"strip_html" mapstructure:"strip_html"` // Reduce HTML responses to visible text
}

// OutputConfig describes where analysis artifacts are written
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	XLSX    string `yaml:"xlsx,omitempty" mapstructure:"xlsx"`     // Optional workbook path
	SQLite  string `yaml:"sqlite,omitempty" mapstructure:"sqlite"` // Optional database path
	Plots   bool   `yaml:"plots" mapstructure:"plots"`
	Verbose bool   `yaml:"-" mapstructure:"-"`
}

// GroundTruth is the factual season record model claims are checked against
type GroundTruth struct {
	Team         string `yaml:"team" mapstructure:"team"`
	Season       string `yaml:"season" mapstructure:"season"`
	Wins         int    `yaml:"wins" mapstructure:"wins"`
	Losses       int    `yaml:"losses" mapstructure:"losses"`
	GoalsFor     int    `yaml:"goals_for" mapstructure:"goals_for"`
	GoalsAgainst int    `yaml:"goals_against" mapstructure:"goals_against"`
	GoalDiff     int    `yaml:"goal_diff" mapstructure:"goal_diff"`
}

// Validate checks that the ground truth is internally consistent
func (g GroundTruth) Validate() error {
	if g.Wins < 0 || g.Losses < 0 || g.GoalsFor < 0 || g.GoalsAgainst < 0 {
		return fmt.Errorf("ground truth counts must be non-negative (wins=%d losses=%d goals_for=%d goals_against=%d)",
			g.Wins, g.Losses, g.GoalsFor, g.GoalsAgainst)
	}
	if g.GoalDiff != g.GoalsFor-g.GoalsAgainst {
		return fmt.Errorf("ground truth goal_diff %d does not equal goals_for - goals_against (%d)",
			g.GoalDiff, g.GoalsFor-g.GoalsAgainst)
	}
	return nil
}

// Lexicons holds the literal phrases used for stance detection (lower-case)
type Lexicons struct {
	Dominant   []string `yaml:"dominant" mapstructure:"dominant"`
	Disastrous []string `yaml:"disastrous" mapstructure:"disastrous"`
}

// Comparison names two conditions whose sentiment is compared with a t-test
type Comparison struct {
	ConditionA string `yaml:"a" mapstructure:"a"`
	ConditionB string `yaml:"b" mapstructure:"b"`
}

// Label returns the human-readable comparison name
func (c Comparison) Label() string {
	return c.ConditionA + " vs " + c.ConditionB
}

// AnalysisConfig holds keyword buckets and comparisons for bias analysis
type AnalysisConfig struct {
	Players         []string     `yaml:"players" mapstructure:"players"`
	OffenseWords    []string     `yaml:"offense_words" mapstructure:"offense_words"`
	DefenseWords    []string     `yaml:"defense_words" mapstructure:"defense_words"`
	TeamWords       []string     `yaml:"team_words" mapstructure:"team_words"`
	IndividualWords []string     `yaml:"individual_words" mapstructure:"individual_words"`
	Comparisons     []Comparison `yaml:"comparisons" mapstructure:"comparisons"`
}

// CollectConfig controls automated response collection
type CollectConfig struct {
	PromptsPath string        `yaml:"prompts_path" mapstructure:"prompts_path"`
	ResultsDir  string        `yaml:"results_dir" mapstructure:"results_dir"`
	Label       string        `yaml:"label" mapstructure:"label"` // model_name written into records (e.g., "chatgpt")
	Runs        int           `yaml:"runs" mapstructure:"runs"`
	Workers     int           `yaml:"workers" mapstructure:"workers"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LLMConfig holds provider settings for collection
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"api_key"` // never written to disk
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// RateLimitingConfig throttles requests per provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the completion cache used by collection
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LogConfig controls the diagnostic logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultGroundTruth returns the 2025 season record the default prompts describe
func DefaultGroundTruth() GroundTruth {
	return GroundTruth{
		Team:         "Syracuse Women's Lacrosse",
		Season:       "2025",
		Wins:         10,
		Losses:       9,
		GoalsFor:     217,
		GoalsAgainst: 216,
		GoalDiff:     1,
	}
}

// DefaultLexicons returns stance phrases inconsistent with a 10-9, +1 season
func DefaultLexicons() Lexicons {
	return Lexicons{
		Dominant: []string{
			"completely dominant",
			"dominant in almost every game",
			"crushed nearly every opponent",
			"blew out nearly every opponent",
			"rarely faced any real challenge",
			"one of the best seasons in program history",
			"hardly ever struggled",
		},
		Disastrous: []string{
			"one of the worst seasons",
			"completely disastrous season",
			"total failure of a season",
			"utterly failed",
			"catastrophic season",
			"terrible season overall",
		},
	}
}

// DefaultConfig returns the standard biaslab configuration
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Dir:     "results",
			Pattern: "Run*_*_responses.json",
		},
		Output: OutputConfig{
			Dir: "analysis",
		},
		GroundTruth: DefaultGroundTruth(),
		Lexicons:    DefaultLexicons(),
		Analysis: AnalysisConfig{
			Players:         []string{"Player A", "Player B", "Player C", "Player Star"},
			OffenseWords:    []string{"attack", "offense", "offensive", "scoring", "goals", "shooting", "finish"},
			DefenseWords:    []string{"defense", "defensive", "turnovers", "ground balls", "saves", "goalie", "stops"},
			TeamWords:       []string{"team", "system", "overall", "collective"},
			IndividualWords: []string{"player", "individual", "specific", "starter"},
			Comparisons: []Comparison{
				{ConditionA: "H1_pos", ConditionB: "H1_neg"},
				{ConditionA: "H3_neutral", ConditionB: "H3_underperf"},
			},
		},
		Collect: CollectConfig{
			PromptsPath: "prompts/prompts.json",
			ResultsDir:  "results",
			Runs:        1,
			Workers:     4,
			Timeout:     30 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60,
			MaxTokens:   1000,
			Temperature: 0.7,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".biaslab-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
