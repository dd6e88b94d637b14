package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptPersonaSystem is the system template binding the model to a
	// persona. It expects three %s placeholders: the persona name twice,
	// then the output language.
	PromptPersonaSystem = "persona_system"

	// PromptUserTurn embeds the context block and the question. It
	// expects %s (context) and %s (question) placeholders.
	PromptUserTurn = "user_turn"

	// PromptRouter classifies a question into a namespace. It expects
	// %s (default namespace), %s (namespace list) and %s (question)
	// placeholders, in that order.
	PromptRouter = "router"
)
