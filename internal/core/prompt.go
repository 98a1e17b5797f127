package core

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/opsdesk/opsdesk/internal/ingest"
	"github.com/opsdesk/opsdesk/internal/store"
)

// DefaultHistoryWindow bounds how many prior messages accompany each
// request. There is no token-budget accounting beyond this fixed window.
const DefaultHistoryWindow = 10

const systemContextPreamble = "You are a highly intelligent Server Support & Inventory Chatbot. " +
	"You have access to the following database:"

const systemContextInstructions = `
YOUR INSTRUCTIONS:
1. **Inventory Lookup**: If the user asks about a machine (e.g., specs, location, login), search the 'Inventory Data'.
   - **Format**: Present the details in a **structured Markdown table** or a clean **bulleted list**.
   - **Fields**: Include App Name, Environment, CPU, Memory, Version, and Login Details.

2. **Troubleshooting**: If the user describes an error or issue, search the 'Knowledge Base' OR the 'UPLOADED DOCUMENT CONTENT'.
   - **Match Found**: Provide the 'Solution' in clear, step-by-step instructions (use numbered lists). Use **bold** for key actions or interface elements.
   - **No Match Found**: You MUST say exactly: "I couldn't find a solution. Please contact [Manager Name], [Position] for this application."
     (Use a relevant manager from the KB if possible, otherwise use a generic placeholder like "the IT Manager").

3. **General Response Guidelines**:
   - **Structure**: Use Markdown Headers (###) to separate distinct parts of your answer (e.g., ### Machine Details, ### Recommended Solution).
   - **Conciseness**: Be professional and helpful. Avoid wall-of-text paragraphs.
   - **Accuracy**: Do not hallucinate inventory details. Use the provided data only. If the answer is in the raw text document, extract and summarize it clearly.`

// buildSystemContext serializes the grounding dataset verbatim into the
// system instruction, followed by the fixed usage instructions. Empty
// sections are omitted entirely.
func buildSystemContext(data *ingest.AppData) string {
	var b strings.Builder
	b.WriteString(systemContextPreamble)

	if data != nil && len(data.Inventory) > 0 {
		b.WriteString("\n\n=== INVENTORY DATA (JSON) ===\n")
		b.WriteString(marshalRecords(data.Inventory))
		b.WriteString("\n=============================")
	}

	if data != nil && len(data.KnowledgeBase) > 0 {
		b.WriteString("\n\n=== KNOWLEDGE BASE (JSON) ===\n")
		b.WriteString(marshalRecords(data.KnowledgeBase))
		b.WriteString("\n=============================")
	}

	if data != nil && data.RawText != "" {
		b.WriteString("\n\n=== UPLOADED DOCUMENT CONTENT (RAW TEXT) ===\n")
		b.WriteString(data.RawText)
		b.WriteString("\n============================================")
	}

	b.WriteString("\n")
	b.WriteString(systemContextInstructions)
	return b.String()
}

func marshalRecords(records []ingest.Record) string {
	serialized, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		// map[string]any of decoded values always marshals; guard anyway
		log.Printf("Failed to serialize records for prompt: %v", err)
		return fmt.Sprintf("%v", records)
	}
	return string(serialized)
}

// recentTurns maps the trailing window of prior messages into role-tagged
// genai turns. System-role messages collapse to user turns; Gemini only
// knows user and model roles.
func recentTurns(history []store.Message, window int) []*genai.Content {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	turns := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == store.RoleModel {
			role = "model"
		}
		turns = append(turns, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return turns
}
