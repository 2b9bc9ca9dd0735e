// Package classifier buckets check-in form answers into fixed wellness
// categories by keyword matching on the question text.
package classifier

import (
	"alcyxob/coach-analytics/internal/domain"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultAverageScore = 7.5
	trendWindow         = 5
	topN                = 3
	topicWords          = 3
)

// Category is a named bucket and the keywords that route questions to it.
type Category struct {
	Name     string
	Keywords []string
}

// DefaultCategories is the category table used by the dashboards.
var DefaultCategories = []Category{
	{Name: "Nutrition", Keywords: []string{"nutrition", "diet", "food", "meal", "eating", "protein", "water", "calorie", "macro"}},
	{Name: "Exercise", Keywords: []string{"exercise", "workout", "training", "activity", "cardio", "strength", "steps"}},
	{Name: "Sleep", Keywords: []string{"sleep", "bedtime", "tired", "energy", "insomnia"}},
	{Name: "Stress Management", Keywords: []string{"stress", "anxiety", "mood", "mental", "relax", "overwhelm"}},
}

var (
	positiveWords = []string{"good", "great", "better"}
	negativeWords = []string{"bad", "struggle", "difficult"}
)

// Classifier holds the category table. The zero value is not usable; use New.
type Classifier struct {
	categories []Category
}

// New creates a Classifier over categories, or DefaultCategories when none
// are given.
func New(categories ...Category) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Classifier{categories: categories}
}

// Classify runs the default classifier.
func Classify(submissions []domain.FormSubmission, forms []domain.CheckInForm) []domain.CategorySummary {
	return New().Classify(submissions, forms)
}

// Placeholder is the result for an empty submission list.
func Placeholder() []domain.CategorySummary {
	return placeholderFor(DefaultCategories)
}

func placeholderFor(categories []Category) []domain.CategorySummary {
	out := make([]domain.CategorySummary, len(categories))
	for i, c := range categories {
		out[i] = domain.CategorySummary{
			Name:         c.Name,
			Trend:        domain.TrendStable,
			TopIssues:    []string{domain.NoDataSentinel},
			SuccessAreas: []string{domain.NoDataSentinel},
		}
	}
	return out
}

// counter counts topic keys and remembers first-seen order for ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to n keys by descending count; ties keep first-seen order.
func (c *counter) top(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

type bucket struct {
	responses int
	scores    []float64
	issues    *counter
	successes *counter
}

// Classify attributes every answered question to each category whose
// keywords appear in the question text. Submissions are processed oldest
// first and questions in form order, so the output is deterministic.
func (c *Classifier) Classify(submissions []domain.FormSubmission, forms []domain.CheckInForm) []domain.CategorySummary {
	if len(submissions) == 0 {
		return placeholderFor(c.categories)
	}

	formsByID := make(map[string]*domain.CheckInForm, len(forms))
	for i := range forms {
		formsByID[forms[i].ID] = &forms[i]
	}

	buckets := make([]*bucket, len(c.categories))
	for i := range buckets {
		buckets[i] = &bucket{issues: newCounter(), successes: newCounter()}
	}

	ordered := append([]domain.FormSubmission(nil), submissions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt) })

	for _, sub := range ordered {
		form, ok := formsByID[sub.FormID]
		if !ok {
			continue
		}
		for _, q := range form.Questions {
			answer, answered := sub.Answers[q.ID]
			if !answered || answer == nil {
				continue
			}
			questionText := strings.ToLower(q.Text)
			for i, cat := range c.categories {
				if !matchesAny(questionText, cat.Keywords) {
					continue
				}
				b := buckets[i]
				b.responses++
				switch q.Type {
				case domain.QuestionScale:
					if score, ok := toFloat(answer); ok {
						b.scores = append(b.scores, score)
					}
				case domain.QuestionText:
					text, ok := answer.(string)
					if !ok {
						continue
					}
					classifyText(strings.ToLower(text), b)
				}
			}
		}
	}

	out := make([]domain.CategorySummary, len(c.categories))
	for i, cat := range c.categories {
		b := buckets[i]
		trend, improvement := trendOf(b.scores)
		out[i] = domain.CategorySummary{
			Name:           cat.Name,
			TotalResponses: b.responses,
			AverageScore:   average(b.scores),
			Trend:          trend,
			Improvement:    improvement,
			TopIssues:      b.issues.top(topN),
			SuccessAreas:   b.successes.top(topN),
		}
	}
	return out
}

// classifyText counts a lower-cased answer as an issue or a success.
// Negative wording wins when both kinds of words are present.
func classifyText(text string, b *bucket) {
	key := topicKey(text)
	if key == "" {
		return
	}
	switch {
	case matchesAny(text, negativeWords):
		b.issues.add(key)
	case matchesAny(text, positiveWords):
		b.successes.add(key)
	}
}

// topicKey is the first three whitespace separated words of text.
func topicKey(text string) string {
	words := strings.Fields(text)
	if len(words) > topicWords {
		words = words[:topicWords]
	}
	return strings.Join(words, " ")
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func average(scores []float64) float64 {
	if len(scores) == 0 {
		return defaultAverageScore
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// trendOf compares the first and last of the most recent five scores.
func trendOf(scores []float64) (domain.Trend, float64) {
	recent := scores
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}
	if len(recent) < 2 {
		return domain.TrendStable, 0
	}
	first, last := recent[0], recent[len(recent)-1]

	trend := domain.TrendDown
	if last > first {
		trend = domain.TrendUp
	}
	if first == 0 {
		return trend, 0
	}
	return trend, math.Round((last - first) / first * 100)
}

// toFloat accepts the numeric shapes answers arrive in from the stores and
// from JSON, plus numeric strings. NaN and infinities are not scores.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
