package config

// Default user-facing strings. Deployments can override any of them in the
// replies section of the config file.
const (
	defaultWelcome = "Hi! 👋\n\nI'm an AI assistant powered by BestVPN AI.\n\nSend me a message and I'll do my best to help."

	defaultHelp = "🤖 *How to use this bot*\n\n" +
		"• Send any message to chat with me\n" +
		"• /start — start over\n" +
		"• /help — show this help\n\n" +
		"Answers are generated by a BestVPN AI model."

	defaultFallback = "Sorry, I'm having trouble right now. Please try again later."

	defaultTextOnly = "Sorry, I can only handle text messages."
)
