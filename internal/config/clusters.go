package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aidigest/internal/core"
)

// ClusterDef is one topic cluster definition. Definitions are validated at
// load time; the classifier assumes every definition it receives is sound.
type ClusterDef struct {
	Key                string   `yaml:"key"`
	Keywords           []string `yaml:"keywords"`
	DisplayName        string   `yaml:"display_name"`
	Icon               string   `yaml:"icon"`
	CrossLinkThreshold float64  `yaml:"cross_link_threshold"` // 0 disables cross-link membership
}

// clustersFile is the on-disk shape of a cluster definition file.
type clustersFile struct {
	Clusters []ClusterDef `yaml:"clusters"`
}

// LoadClusters reads cluster definitions from a YAML file. An empty path
// yields the built-in defaults.
func LoadClusters(path string) ([]ClusterDef, error) {
	if path == "" {
		return DefaultClusters(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clusters file %s: %w", path, err)
	}

	var file clustersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse clusters file %s: %w", path, err)
	}

	if err := ValidateClusters(file.Clusters); err != nil {
		return nil, err
	}
	return file.Clusters, nil
}

// ValidateClusters rejects malformed cluster definitions early rather than
// failing deep in the classifier.
func ValidateClusters(defs []ClusterDef) error {
	if len(defs) == 0 {
		return fmt.Errorf("no topic clusters defined")
	}
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if def.Key == "" {
			return fmt.Errorf("cluster %d: empty key", i)
		}
		if def.Key == core.UncategorizedKey {
			return fmt.Errorf("cluster %q: key is reserved", def.Key)
		}
		if seen[def.Key] {
			return fmt.Errorf("cluster %q: duplicate key", def.Key)
		}
		seen[def.Key] = true
		if len(def.Keywords) == 0 {
			return fmt.Errorf("cluster %q: no keywords", def.Key)
		}
		for _, kw := range def.Keywords {
			if kw == "" {
				return fmt.Errorf("cluster %q: empty keyword", def.Key)
			}
		}
		if def.CrossLinkThreshold < 0 {
			return fmt.Errorf("cluster %q: negative cross_link_threshold", def.Key)
		}
	}
	return nil
}

// DefaultClusters returns the built-in AI & robotics topic clusters.
func DefaultClusters() []ClusterDef {
	return []ClusterDef{
		{
			Key:         "openai",
			Keywords:    []string{"openai", "chatgpt", "gpt-4", "gpt-5", "dall-e", "whisper", "o1"},
			DisplayName: "OpenAI & ChatGPT",
			Icon:        "🧠",
		},
		{
			Key:         "deepmind",
			Keywords:    []string{"deepmind", "gemini", "bard", "alphafold", "alphacode"},
			DisplayName: "DeepMind & Google AI",
			Icon:        "🔬",
		},
		{
			Key:         "humanoids",
			Keywords:    []string{"humanoid", "figure ai", "sanctuary ai", "1x technologies", "boston dynamics", "atlas"},
			DisplayName: "Humanoids & Physical AI",
			Icon:        "🤖",
		},
		{
			Key:         "tesla_nvidia",
			Keywords:    []string{"tesla", "nvidia", "fsd", "autonomous", "self-driving", "cuda"},
			DisplayName: "Tesla & NVIDIA AI",
			Icon:        "🚗",
		},
		{
			Key:         "anthropic",
			Keywords:    []string{"anthropic", "claude", "constitutional ai"},
			DisplayName: "Anthropic & Claude",
			Icon:        "🤝",
		},
		{
			Key:         "regulation_ethics",
			Keywords:    []string{"regulation", "ethics", "safety", "bias", "privacy", "gdpr", "ai act"},
			DisplayName: "AI Regulation & Ethics",
			Icon:        "⚖️",
		},
		{
			Key:                "research_models",
			Keywords:           []string{"transformer", "llm", "foundation model", "multimodal", "reasoning"},
			DisplayName:        "Foundation Models & Research",
			Icon:               "📚",
			CrossLinkThreshold: 2,
		},
		{
			Key:         "robotics_automation",
			Keywords:    []string{"robotics", "automation", "industrial", "manufacturing", "ros"},
			DisplayName: "Robotics & Automation",
			Icon:        "🏭",
		},
		{
			Key:         "general_ai",
			Keywords:    []string{"artificial intelligence", "machine learning", "neural network", "deep learning"},
			DisplayName: "General AI Research",
			Icon:        "📊",
		},
	}
}
