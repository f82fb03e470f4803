package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ellawick/lunalog/internal/extract"
)

// keywordsFile is the on-disk shape of the extraction keyword config.
// YAML sequences keep their declaration order, which the extractor relies on
// for tie-breaking.
type keywordsFile struct {
	Flow     []string `yaml:"flow"`
	Mood     []string `yaml:"mood"`
	Symptoms []string `yaml:"symptoms"`
	Spotting []string `yaml:"spotting"`
}

// DefaultKeywords returns the built-in candidate keyword sets.
func DefaultKeywords() extract.Config {
	return extract.Config{
		Flow:     []string{"heavy", "medium", "light"},
		Mood:     []string{"happy", "sad", "anxious", "stressed", "tired", "energetic"},
		Symptoms: []string{"cramps", "bloating", "headache", "nausea", "fatigue", "backache"},
		Spotting: []string{"spotting", "brown discharge"},
	}
}

// LoadKeywords reads the keyword config from a YAML file. An empty path
// returns the built-in defaults. Fields absent from the file fall back to
// their defaults so a partial file stays usable.
func LoadKeywords(path string) (extract.Config, error) {
	cfg := DefaultKeywords()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Config{}, fmt.Errorf("read keywords file: %w", err)
	}

	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return extract.Config{}, fmt.Errorf("parse keywords file %s: %w", path, err)
	}

	if kf.Flow != nil {
		cfg.Flow = kf.Flow
	}
	if kf.Mood != nil {
		cfg.Mood = kf.Mood
	}
	if kf.Symptoms != nil {
		cfg.Symptoms = kf.Symptoms
	}
	if kf.Spotting != nil {
		cfg.Spotting = kf.Spotting
	}
	return cfg, nil
}
