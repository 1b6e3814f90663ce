package conversation

import "buildpad.app/concierge/internal/llm"

// UserMessage is the short notification copy per failure kind, shared by
// the controller and the stateless chat proxy.
func UserMessage(kind llm.Kind) string {
	switch kind {
	case llm.KindConfiguration, llm.KindAuthentication:
		return "The scoping assistant is not available right now. Please contact the site administrator."
	case llm.KindRateLimit:
		return "The assistant is handling a lot of requests. Please try again in a moment."
	case llm.KindTimeout:
		return "The assistant took too long to respond. Please try again."
	case llm.KindInvalidResponse:
		return "The assistant returned an unexpected response. Please try again."
	default:
		return "We couldn't reach the assistant. Please check your connection and try again."
	}
}

// apologyFor is the synthesized assistant-voice message appended to the
// visible transcript on failure, keeping the conversation coherent.
func apologyFor(kind llm.Kind) string {
	switch kind {
	case llm.KindConfiguration, llm.KindAuthentication:
		return "I'm sorry, I'm temporarily unavailable due to a setup issue on our side. " +
			"The team has been notified; please check back shortly."
	case llm.KindRateLimit:
		return "I'm sorry, I'm receiving a lot of requests right now. " +
			"Give me a moment and press Try Again."
	case llm.KindTimeout:
		return "I'm sorry, that took longer than expected and I had to stop waiting. " +
			"Please try sending your message again."
	default:
		return "I'm sorry, I ran into a connection problem and couldn't process that. " +
			"Your message is still here; please try again."
	}
}
