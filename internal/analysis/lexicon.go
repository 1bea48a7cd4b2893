package analysis

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed lexicons.yaml
var lexiconsYAML []byte

// Lexicon holds the positive and negative word stems for one language.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// LoadLexicons parses the embedded sentiment lexicons, keyed by language.
func LoadLexicons() (map[string]Lexicon, error) {
	lexicons := make(map[string]Lexicon)
	if err := yaml.Unmarshal(lexiconsYAML, &lexicons); err != nil {
		return nil, fmt.Errorf("parse sentiment lexicons: %w", err)
	}
	for lang, lex := range lexicons {
		if len(lex.Positive) == 0 && len(lex.Negative) == 0 {
			return nil, fmt.Errorf("lexicon %q has no stems", lang)
		}
	}
	return lexicons, nil
}
