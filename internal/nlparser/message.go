package nlparser

import "strings"

// chatMessage is the role/content pair both reference backends send to
// their respective chat APIs.
type chatMessage struct {
	Role    string
	Content string
}

// systemPrompt is shared by every backend: it defines the eight intents,
// the exact output JSON schema, and the chaining rule ("multiple
// commands in one input produce multiple array elements").
func systemPrompt(today, weekday string, events []EventContext) string {
	summary := "(no events loaded)"
	if len(events) > 0 {
		max := len(events)
		if max > 20 {
			max = 20
		}
		summary = ""
		for _, e := range events[:max] {
			summary += "- " + e.Date + " " + e.Time + ": " + e.Title + "\n"
		}
	}

	return "You are a calendar command parser. Today is " + today + " (" + weekday + ").\n\n" +
		"Intents:\n" +
		"- LIST = user wants to SEE/VIEW events\n" +
		"- SCHEDULE = user wants to CREATE/ADD a new event\n" +
		"- DELETE = user wants to REMOVE an event\n" +
		"- UPDATE = user wants to CHANGE an event\n" +
		"- FIND_FREE = user wants to see AVAILABLE/FREE time slots\n" +
		"- FIND_OPTIMAL = user wants a SUGGESTED time\n" +
		"- HELP = user is asking what the assistant can do\n" +
		"- PREFERENCES = user wants to view or change blocked-time preferences\n\n" +
		"If the user issues a SINGLE command, return an array with one object.\n" +
		"If the user issues MULTIPLE commands (e.g. \"schedule gym today and study tomorrow\"),\n" +
		"return an array with one object per command.\n\n" +
		"Current events:\n" + summary + "\n\n" +
		"Respond ONLY with a valid JSON array (no markdown, no explanation):\n" +
		`[{"intent":"SCHEDULE|LIST|DELETE|UPDATE|FIND_FREE|FIND_OPTIMAL|HELP|PREFERENCES",` +
		`"activity":"event title or null",` +
		`"date":"relative phrase (today/tomorrow/monday/next week/etc.) or YYYY-MM-DD, or null",` +
		`"date_end":"YYYY-MM-DD for explicit date ranges only, otherwise null",` +
		`"time":"HH:MM in 24-hour format or null",` +
		`"duration":"minutes as integer or null",` +
		`"time_pref":"morning|afternoon|evening|null"}]`
}

// extractJSON pulls a JSON array or object out of a response that may be
// wrapped in a ```json fence, a plain ``` fence, or surrounded by prose.
func extractJSON(s string) string {
	if start := strings.Index(s, "```json"); start != -1 {
		body := strings.TrimLeft(s[start+len("```json"):], "\n\r")
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimRight(body[:end], "\n\r")
		}
	}
	if start := strings.Index(s, "```"); start != -1 {
		body := strings.TrimLeft(s[start+len("```"):], "\n\r")
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimRight(body[:end], "\n\r")
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			depth := 0
			for j := i; j < len(s); j++ {
				switch s[j] {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
					if depth == 0 {
						return s[i : j+1]
					}
				}
			}
		}
	}
	return s
}
