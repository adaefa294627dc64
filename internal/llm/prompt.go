package llm

import (
	"fmt"
	"strings"
)

// extractionPrompt instructs the model to return one JSON array of
// question objects matching the output database schema exactly.
const extractionPrompt = `You are an expert assistant specializing in parsing Japanese Language Proficiency Test (JLPT) documents.
Your task is to analyze the text from a single page of a JLPT practice test PDF and extract all the questions into a structured format.

The text may contain various question types, including:
- Vocabulary (e.g., reading of a kanji word)
- Fill-in-the-blank grammar questions
- Sentence construction problems
- Synonym identification

The answer to a question is often underlined or bolded within the sentence. For fill-in-the-blank questions, the question text should contain a placeholder like (______) where the answer was.

Analyze the following page text and return a JSON array of question objects.

RULES:
1. Each object in the array must represent a single question.
2. Each object must have these exact keys: "type", "number", "dialogue", "question", "choices", "answer", "source_page".
3. "type": a short description of the question type (e.g., "Vocabulary", "Fill-in-the-Blank", "Synonym").
4. "number": the question number as a string (e.g., "1", "2").
5. "dialogue": any conversational text leading up to the question. If none, use an empty string.
6. "question": the main text of the question. For fill-in-the-blanks, the original sentence with the answer replaced by (______).
7. "choices": a string containing the multiple-choice options, separated by newlines. If none, use an empty string.
8. "answer": the correct answer text.
9. "source_page": the page number provided to you.
10. If the page contains no questions, return an empty JSON array [].
11. Your entire response must be ONLY the JSON array, with no other text, explanations, or markdown formatting.`

// buildPagePrompt creates the full prompt for one page of document text.
func buildPagePrompt(pageText string, pageNumber int) string {
	var sb strings.Builder
	sb.WriteString(extractionPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Page Number: %d\n", pageNumber))
	sb.WriteString("\nPage Text:\n---\n")
	sb.WriteString(pageText)
	sb.WriteString("\n---\n")
	return sb.String()
}
