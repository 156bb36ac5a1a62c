package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once and passed by
// reference into each pipeline stage; nothing mutates it at runtime.
type Config struct {
	App     App     `mapstructure:"app"`
	Engine  Engine  `mapstructure:"engine"`
	Sources Sources `mapstructure:"sources"`
	LLM     LLM     `mapstructure:"llm"`
	Email   Email   `mapstructure:"email"`
	Output  Output  `mapstructure:"output"`
}

// App holds general application configuration
type App struct {
	Debug        bool   `mapstructure:"debug"`
	DataDir      string `mapstructure:"data_dir"`
	ClustersFile string `mapstructure:"clusters_file"`
}

// Engine groups the intelligence engine tuning knobs. The exact weighting
// constants are tunable configuration, not hard invariants.
type Engine struct {
	Relevance Relevance `mapstructure:"relevance"`
	Dedup     Dedup     `mapstructure:"dedup"`
	Classify  Classify  `mapstructure:"classify"`
	Trends    Trends    `mapstructure:"trends"`
	Narrative Narrative `mapstructure:"narrative"`
}

// Relevance holds relevance scorer configuration
type Relevance struct {
	Threshold    float64  `mapstructure:"threshold"`      // Items below this are filtered out
	TitleWeight  float64  `mapstructure:"title_weight"`   // Per-hit weight for vocabulary terms in titles
	BodyWeight   float64  `mapstructure:"body_weight"`    // Per-hit weight for vocabulary terms in bodies
	RecencyMax   float64  `mapstructure:"recency_max"`    // Score contribution of a just-published item
	LookbackDays int      `mapstructure:"lookback_days"`  // Window over which recency decays linearly to zero
	Vocabulary   []string `mapstructure:"vocabulary"`     // Global interest vocabulary
}

// Dedup holds deduplicator configuration
type Dedup struct {
	TitleSimilarity float64 `mapstructure:"title_similarity"` // Token overlap ratio threshold
	WindowHours     int     `mapstructure:"window_hours"`     // Max publish-time distance for title-based merges
}

// Classify holds topic classifier configuration
type Classify struct {
	TitleWeight int `mapstructure:"title_weight"` // Weight per keyword hit in titles
	BodyWeight  int `mapstructure:"body_weight"`  // Weight per keyword hit in bodies
}

// Trends holds trend tracker configuration
type Trends struct {
	MediumMin    int     `mapstructure:"medium_min"`    // Item count at which activity becomes medium
	HighMin      int     `mapstructure:"high_min"`      // Item count at which activity becomes high
	Epsilon      float64 `mapstructure:"epsilon"`       // Band around the historical mean treated as stable
	Retention    int     `mapstructure:"retention"`     // Run history entries kept per cluster key
	RecencyHours int     `mapstructure:"recency_hours"` // Window for the urgency recency fraction
}

// Narrative holds the output contract applied to oracle-generated text.
type Narrative struct {
	MinSentences     int      `mapstructure:"min_sentences"`
	MaxSentences     int      `mapstructure:"max_sentences"`
	ForbiddenTerms   []string `mapstructure:"forbidden_terms"`
	CompanyNames     []string `mapstructure:"company_names"` // Required-term category: at least one must appear
	TruncationRepair bool     `mapstructure:"truncation_repair"`
}

// Sources holds source adapter configuration
type Sources struct {
	GitHub GitHub `mapstructure:"github"`
	Papers Papers `mapstructure:"papers"`
	RSS    RSS    `mapstructure:"rss"`
}

// GitHubRepo is one tracked repository with its authority weight. Flagship
// repositories carry a higher weight than unlisted ones.
type GitHubRepo struct {
	Name   string  `mapstructure:"name" yaml:"name"`
	Weight float64 `mapstructure:"weight" yaml:"weight"`
}

// GitHub holds GitHub source configuration
type GitHub struct {
	Token        string       `mapstructure:"token"`
	Repos        []GitHubRepo `mapstructure:"repos"`
	CommitsLimit int          `mapstructure:"commits_limit"`
	LookbackDays int          `mapstructure:"lookback_days"`
	Timeout      string       `mapstructure:"timeout"`
}

// Papers holds research paper source configuration
type Papers struct {
	BaseURL        string   `mapstructure:"base_url"`
	Keywords       []string `mapstructure:"keywords"`
	PapersPerQuery int      `mapstructure:"papers_per_query"`
	SourceWeight   float64  `mapstructure:"source_weight"`
	Timeout        string   `mapstructure:"timeout"`
}

// RSSFeed is one configured feed with presentation category and weight.
type RSSFeed struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	URL      string  `mapstructure:"url" yaml:"url"`
	Category string  `mapstructure:"category" yaml:"category"`
	Weight   float64 `mapstructure:"weight" yaml:"weight"`
}

// RSS holds RSS source configuration
type RSS struct {
	Feeds        []RSSFeed `mapstructure:"feeds"`
	ItemsLimit   int       `mapstructure:"items_limit"`
	UserAgent    string    `mapstructure:"user_agent"`
	Timeout      string    `mapstructure:"timeout"`
	EnrichBodies bool      `mapstructure:"enrich_bodies"` // Fetch full article text for short descriptions
}

// LLM holds oracle configuration
type LLM struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Timeout     string  `mapstructure:"timeout"`
}

// Email holds SMTP delivery configuration
type Email struct {
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	Subject   string `mapstructure:"subject"`
}

// Output holds local output configuration
type Output struct {
	Directory string `mapstructure:"directory"`
}

// Load loads configuration from the .env file, the config file, and the
// environment, with precedence env > file > defaults.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".aidigest")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvironmentVariables(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values. The numeric constants here
// are tuning knobs, not invariants.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.data_dir", ".aidigest")
	v.SetDefault("app.clusters_file", "")

	v.SetDefault("engine.relevance.threshold", 6.5)
	v.SetDefault("engine.relevance.title_weight", 2.0)
	v.SetDefault("engine.relevance.body_weight", 1.0)
	v.SetDefault("engine.relevance.recency_max", 2.0)
	v.SetDefault("engine.relevance.lookback_days", 7)
	v.SetDefault("engine.relevance.vocabulary", defaultVocabulary())

	v.SetDefault("engine.dedup.title_similarity", 0.85)
	v.SetDefault("engine.dedup.window_hours", 48)

	v.SetDefault("engine.classify.title_weight", 2)
	v.SetDefault("engine.classify.body_weight", 1)

	v.SetDefault("engine.trends.medium_min", 3)
	v.SetDefault("engine.trends.high_min", 9)
	v.SetDefault("engine.trends.epsilon", 0.25)
	v.SetDefault("engine.trends.retention", 7)
	v.SetDefault("engine.trends.recency_hours", 24)

	v.SetDefault("engine.narrative.min_sentences", 2)
	v.SetDefault("engine.narrative.max_sentences", 3)
	v.SetDefault("engine.narrative.forbidden_terms", []string{
		"robust", "landscape", "accordingly", "advancements",
	})
	v.SetDefault("engine.narrative.company_names", []string{
		"OpenAI", "DeepMind", "Anthropic", "NVIDIA", "Tesla", "Google",
		"Microsoft", "Meta", "Figure AI", "Boston Dynamics",
	})
	v.SetDefault("engine.narrative.truncation_repair", true)

	v.SetDefault("sources.github.commits_limit", 10)
	v.SetDefault("sources.github.lookback_days", 1)
	v.SetDefault("sources.github.timeout", "30s")
	v.SetDefault("sources.papers.base_url", "https://paperswithcode.com/api/v1")
	v.SetDefault("sources.papers.papers_per_query", 5)
	v.SetDefault("sources.papers.source_weight", 1.5)
	v.SetDefault("sources.papers.timeout", "30s")
	v.SetDefault("sources.papers.keywords", []string{
		"large language model", "transformer", "robotics",
		"foundation model", "reinforcement learning", "humanoid",
	})
	v.SetDefault("sources.rss.items_limit", 10)
	v.SetDefault("sources.rss.user_agent", "aidigest RSS Reader/1.0")
	v.SetDefault("sources.rss.timeout", "30s")
	v.SetDefault("sources.rss.enrich_bodies", false)

	v.SetDefault("llm.model", "gemini-flash-lite-latest")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 256)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.subject", "AI & Robotics Intelligence Digest")

	v.SetDefault("output.directory", "digests")
}

// bindEnvironmentVariables binds the secrets that are usually supplied via
// the environment rather than the config file.
func bindEnvironmentVariables(v *viper.Viper) {
	envMappings := map[string]string{
		"sources.github.token": "GITHUB_TOKEN",
		"llm.api_key":          "GEMINI_API_KEY",
		"email.sender":         "EMAIL_SENDER",
		"email.password":       "EMAIL_PASSWORD",
		"email.recipient":      "EMAIL_RECIPIENT",
	}
	for key, env := range envMappings {
		_ = v.BindEnv(key, env)
	}
}

// validate rejects configuration the engine cannot run with. Malformed
// definitions fail here rather than deep in a pipeline stage.
func validate(c *Config) error {
	r := c.Engine.Relevance
	if r.Threshold < 0 || r.Threshold > 10 {
		return fmt.Errorf("engine.relevance.threshold must be in [0,10], got %v", r.Threshold)
	}
	if r.LookbackDays <= 0 {
		return fmt.Errorf("engine.relevance.lookback_days must be positive, got %d", r.LookbackDays)
	}
	d := c.Engine.Dedup
	if d.TitleSimilarity <= 0 || d.TitleSimilarity > 1 {
		return fmt.Errorf("engine.dedup.title_similarity must be in (0,1], got %v", d.TitleSimilarity)
	}
	t := c.Engine.Trends
	if t.MediumMin <= 0 || t.HighMin <= t.MediumMin {
		return fmt.Errorf("engine.trends breakpoints must satisfy 0 < medium_min < high_min")
	}
	if t.Retention <= 0 {
		return fmt.Errorf("engine.trends.retention must be positive, got %d", t.Retention)
	}
	n := c.Engine.Narrative
	if n.MinSentences <= 0 || n.MaxSentences < n.MinSentences {
		return fmt.Errorf("engine.narrative sentence bounds must satisfy 0 < min <= max")
	}
	return nil
}

// defaultVocabulary is the global interest vocabulary used by the relevance
// scorer when none is configured.
func defaultVocabulary() []string {
	return []string{
		"openai", "chatgpt", "gpt-4", "anthropic", "claude", "deepmind",
		"gemini", "nvidia", "tesla", "humanoid", "robotics", "autonomous",
		"foundation model", "large language model", "transformer",
		"multimodal", "machine learning", "neural network", "embodied ai",
		"reinforcement learning", "ai safety", "computer vision",
	}
}
