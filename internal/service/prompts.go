package service

import (
	"fmt"

	"storybuddy/internal/domain"
)

const storyPromptPrefix = "Tell a children's story based on the given context in paragraphs: "

// quizFormatTemplate is the answer layout domain.ParseQuizResponse expects back from the model.
const quizFormatTemplate = `
    Generate 10 multiple-choice questions based on the provided story. For each question, include:
    1. The question text.
    2. Four options (labeled a, b, c, d).
    3. skip 2 lines before starting the next question.

    Use this exact format for the response:
    Question 1: [Your question here]
    a) [Option 1]
    b) [Option 2]
    c) [Option 3]
    d) [Option 4]
    Correct Answer: [Letter of the correct answer]

    Repeat for all 10 questions.
    `

const (
	explainImageAndTextPrefix = "Explain this image and the following text in a simple way for children: "
	explainImageOnly          = "Explain this image in a simple way for children."
	explainTextPrefix         = "Explain this text in a simple way for children: "
)

// Generation modes, also used as cache key segments.
const (
	modeStory   = "story"
	modeQuiz    = "quiz"
	modeExplain = "explain"
)

// expectedQuizQuestions is how many questions the quiz prompt asks for.
const expectedQuizQuestions = 10

func BuildStoryPrompt(text string) string {
	return storyPromptPrefix + text
}

func BuildQuizPrompt(story string) string {
	return fmt.Sprintf("in the following format: %s \n Frame 10 questions and give 4 options with one correct answer on the following story: %s", quizFormatTemplate, story)
}

// BuildExplainPrompt picks the explanation prompt for the inputs present.
// With neither text nor image it returns an INVALID_INPUT error.
func BuildExplainPrompt(text string, hasImage bool) (string, error) {
	switch {
	case hasImage && text != "":
		return explainImageAndTextPrefix + text, nil
	case hasImage:
		return explainImageOnly, nil
	case text != "":
		return explainTextPrefix + text, nil
	default:
		return "", domain.NewInvalidInputError(domain.MsgNoValidInput)
	}
}
