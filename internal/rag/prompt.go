// internal/rag/prompt.go
package rag

import "strings"

// PassageSeparator joins retrieved passages inside the context section.
const PassageSeparator = "\n\n---\n\n"

const sectionSeparator = "\n\n"

// DefaultInstructions is the system preamble asking the model to reason step
// by step before committing to a final answer.
const DefaultInstructions = `You are a highly-capable coding assistant.
When you answer:
  - First, think step by step (chain-of-thought) and outline your reasoning
  - Then, provide a concise final answer under "Final Answer:"
  - Always reference file names and paths when relevant
  - If you don't know, say "I don't know."`

// DefaultExamples are two worked examples demonstrating the expected
// reasoning-then-answer format.
const DefaultExamples = `Example 1:
Context:
  File structure:
    - main.py: loads data and runs training loop
    - utils.py: data normalization functions
Question:
  How does the data normalization work?
Answer:
  1. Locate normalize() in utils.py.
  2. It subtracts the mean and divides by standard deviation.
  3. Called in main.py before each training batch.
  **Final Answer**: Data normalization is implemented in utils.py's normalize() which standardizes inputs (mean zero, unit variance) and is invoked in main.py.

Example 2:
Context:
  File structure:
    - api.py: defines FastAPI routes
    - models.py: Pydantic schemas User, Item
Question:
  Which endpoint returns all items for a user?
Answer:
  1. In api.py, inspect /users/{user_id}/items.
  2. This route calls get_items_by_user in models.py.
  3. It returns a list of Item schemas.
  **Final Answer**: The endpoint GET /users/{user_id}/items in api.py returns all items for that user.`

// The generation model depends on the section order instructions -> examples
// -> context -> question -> answer marker. Each stage type below exposes only
// the next stage, so a call site cannot assemble sections out of order.

// InstructionsStage holds a prompt with its instructions section set.
type InstructionsStage struct{ sections []string }

// ExamplesStage holds a prompt through its worked-examples section.
type ExamplesStage struct{ sections []string }

// ContextStage holds a prompt through its retrieved-context section.
type ContextStage struct{ sections []string }

// QuestionStage holds a fully-sectioned prompt ready to build.
type QuestionStage struct{ sections []string }

// NewPrompt starts a prompt with its system instructions.
func NewPrompt(instructions string) InstructionsStage {
	return InstructionsStage{sections: []string{instructions}}
}

// Examples appends the worked-example section.
func (s InstructionsStage) Examples(examples string) ExamplesStage {
	return ExamplesStage{sections: append(s.sections, examples)}
}

// Context appends the retrieved-context section. Passages must already be in
// retrieval rank order; they are joined with PassageSeparator so the most
// relevant passage comes first.
func (s ExamplesStage) Context(passages []string) ContextStage {
	ctx := "### Repository Context\n" + strings.Join(passages, PassageSeparator)
	return ContextStage{sections: append(s.sections, ctx)}
}

// Question appends the user question section.
func (s ContextStage) Question(question string) QuestionStage {
	q := "### User Question\n" + question
	return QuestionStage{sections: append(s.sections, q)}
}

// Build closes the prompt with the answer marker and returns the full text.
func (s QuestionStage) Build() string {
	return strings.Join(append(s.sections, "### Your Answer"), sectionSeparator)
}
