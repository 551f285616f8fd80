package llm

const SystemPrompt = "You are a helpful assistant that converts text into well-structured JSON. " +
	"Always ensure the output is valid JSON format. " +
	"When processing tables, maintain their structure in the JSON output."

const userPreamble = "Convert the following text into a structured JSON format, " +
	"maintaining all information and context, especially preserving table structures. Text: "

// BuildUserPrompt appends the extracted text verbatim to the fixed instruction.
func BuildUserPrompt(text string) string {
	return userPreamble + text
}

// BuildMessages returns the system/user pair sent for every document.
func BuildMessages(text string) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemPrompt},
		{Role: RoleUser, Content: BuildUserPrompt(text)},
	}
}
