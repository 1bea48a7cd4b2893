package analysis

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

// Keyword selection: nouns and proper nouns longer than three characters,
// document order, capped. The cap is fixed at 10 everywhere.
const (
	keywordCap       = 10
	keywordMinLength = 3

	// Sentiment is only scored on texts longer than this many tokens.
	sentimentMinTokens = 5

	// Share of cyrillic letters above which the text counts as Russian.
	cyrillicRatioThreshold = 0.3
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`\d{1,2}\s+[а-я]+\s+\d{4}`),
	}
	moneyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\s*руб[\p{L}]*`),
		regexp.MustCompile(`\$\s*\d+`),
		regexp.MustCompile(`(?i)\d+\s*евро`),
		regexp.MustCompile(`(?i)\d+\s*USD`),
	}
)

// Analyzer derives language, entities, sentiment, keywords and auxiliary
// regex extractions from raw text. The entity recognizer is an injected,
// read-only capability; when it is unavailable the analyzer degrades to
// empty entities and keywords instead of failing.
type Analyzer struct {
	recognizer ports.EntityRecognizer
	lexicons   map[string]Lexicon
}

func New(recognizer ports.EntityRecognizer, lexicons map[string]Lexicon) *Analyzer {
	return &Analyzer{
		recognizer: recognizer,
		lexicons:   lexicons,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, text string) domain.AnalysisResult {
	if strings.TrimSpace(text) == "" {
		return domain.AnalysisResult{
			Language:     domain.LanguageUnknown,
			Entities:     []domain.Entity{},
			Keywords:     []string{},
			Dates:        []string{},
			MoneyAmounts: []string{},
		}
	}

	language := DetectLanguage(text)

	entities := []domain.Entity{}
	keywords := []string{}
	if a.recognizer != nil {
		annotation, err := a.recognizer.Annotate(ctx, text, language)
		if err != nil {
			slog.Warn("entity_recognition_unavailable", "language", language, "error", err)
		} else {
			if annotation.Entities != nil {
				entities = annotation.Entities
			}
			keywords = selectKeywords(annotation.Tokens)
		}
	}

	return domain.AnalysisResult{
		Text:         text,
		Language:     language,
		Entities:     entities,
		Sentiment:    a.scoreSentiment(text, language),
		Keywords:     keywords,
		Dates:        findAllOrdered(text, datePatterns),
		MoneyAmounts: findAllOrdered(text, moneyPatterns),
	}
}

// DetectLanguage counts cyrillic letters against the total rune count.
func DetectLanguage(text string) string {
	if text == "" {
		return domain.LanguageUnknown
	}
	total := 0
	cyrillic := 0
	for _, r := range text {
		total++
		if (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') {
			cyrillic++
		}
	}
	if total == 0 {
		return domain.LanguageUnknown
	}
	if float64(cyrillic)/float64(total) > cyrillicRatioThreshold {
		return domain.LanguageRussian
	}
	return domain.LanguageEnglish
}

func (a *Analyzer) scoreSentiment(text, language string) *domain.Sentiment {
	if len(strings.Fields(text)) <= sentimentMinTokens {
		return nil
	}

	lex, ok := a.lexicons[language]
	if !ok {
		lex = a.lexicons[domain.LanguageEnglish]
	}

	lower := strings.ToLower(text)
	positive := countStems(lower, lex.Positive)
	negative := countStems(lower, lex.Negative)

	label := domain.SentimentNeutral
	switch {
	case positive > negative:
		label = domain.SentimentPositive
	case negative > positive:
		label = domain.SentimentNegative
	}

	return &domain.Sentiment{
		Label:    label,
		Score:    positive - negative,
		Positive: positive,
		Negative: negative,
	}
}

func countStems(lower string, stems []string) int {
	count := 0
	for _, stem := range stems {
		if strings.Contains(lower, stem) {
			count++
		}
	}
	return count
}

func selectKeywords(tokens []domain.Token) []string {
	keywords := make([]string, 0, keywordCap)
	for _, token := range tokens {
		if len(keywords) == keywordCap {
			break
		}
		if token.POS != "NOUN" && token.POS != "PROPN" {
			continue
		}
		if utf8.RuneCountInString(token.Text) <= keywordMinLength {
			continue
		}
		keywords = append(keywords, token.Text)
	}
	return keywords
}

type match struct {
	start int
	text  string
}

// findAllOrdered merges per-pattern matches into occurrence order,
// duplicates included.
func findAllOrdered(text string, patterns []*regexp.Regexp) []string {
	var matches []match
	for _, pattern := range patterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, match{start: loc[0], text: text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.text
	}
	return out
}
