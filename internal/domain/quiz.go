package domain

import (
	"regexp"
	"strings"
)

// QuizItem is one parsed multiple-choice question.
// Options keep their "a) ".."d) " labels so clients can render them as-is.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// QuizDocument is the ordered list of questions parsed from one model response.
type QuizDocument []QuizItem

// ParseStats describes what the parser kept and dropped. Diagnostic only.
type ParseStats struct {
	Segments int
	Parsed   int
	Dropped  int
}

const (
	quizOptionCount    = 4
	quizMinBlockLines  = 1 + quizOptionCount + 1
	correctAnswerLabel = "Correct Answer: "
)

var (
	questionMarker = regexp.MustCompile(`Question \d+:`)
	questionLabel  = regexp.MustCompile(`^Question \d+:\s*`)
)

// ParseQuizResponse turns raw model text into quiz items. It never fails:
// blocks that do not open with "Question N:" followed by four options and an answer line are skipped.
func ParseQuizResponse(raw string) QuizDocument {
	doc, _ := ParseQuizResponseWithStats(raw)
	return doc
}

// ParseQuizResponseWithStats is ParseQuizResponse that also reports how many segments were dropped.
func ParseQuizResponseWithStats(raw string) (QuizDocument, ParseStats) {
	doc := QuizDocument{}
	var stats ParseStats

	for _, segment := range splitQuestionSegments(strings.TrimSpace(raw)) {
		stats.Segments++
		item, ok := parseQuizSegment(segment)
		if !ok {
			stats.Dropped++
			continue
		}
		doc = append(doc, item)
		stats.Parsed++
	}

	return doc, stats
}

// splitQuestionSegments cuts s in front of every "Question N:" marker, keeping the marker
// with the segment it opens. Text before the first marker is its own segment.
func splitQuestionSegments(s string) []string {
	if s == "" {
		return nil
	}

	var segments []string
	start := 0
	for _, loc := range questionMarker.FindAllStringIndex(s, -1) {
		if loc[0] == start {
			continue
		}
		segments = append(segments, s[start:loc[0]])
		start = loc[0]
	}
	return append(segments, s[start:])
}

func parseQuizSegment(segment string) (QuizItem, bool) {
	lines := nonEmptyLines(segment)
	if len(lines) < quizMinBlockLines || !questionLabel.MatchString(lines[0]) {
		return QuizItem{}, false
	}

	options := make([]string, quizOptionCount)
	copy(options, lines[1:1+quizOptionCount])

	answer := strings.TrimSpace(strings.TrimPrefix(lines[1+quizOptionCount], correctAnswerLabel))

	return QuizItem{
		Question:      strings.TrimSpace(questionLabel.ReplaceAllString(lines[0], "")),
		Options:       options,
		CorrectAnswer: answer,
	}, true
}

func nonEmptyLines(segment string) []string {
	raw := strings.Split(strings.TrimSpace(segment), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
