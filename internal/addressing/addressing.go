// Package addressing derives conversation identifiers from participant ids.
package addressing

import "strings"

const (
	Separator     = "_"
	chatbotPrefix = "chatbot" + Separator
)

// ConversationID returns the same identifier for (a, b) and (b, a).
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + Separator + b
}

func ChatbotConversationID(userID string) string {
	return chatbotPrefix + userID
}

// Participants splits a direct conversation id back into its sorted pair.
// Participant ids must not contain Separator; uuids never do.
func Participants(conversationID string) (a, b string, ok bool) {
	if strings.HasPrefix(conversationID, chatbotPrefix) {
		return "", "", false
	}
	a, b, ok = strings.Cut(conversationID, Separator)
	if !ok || a == "" || b == "" || strings.Contains(b, Separator) {
		return "", "", false
	}
	return a, b, true
}

// Includes reports whether userID is one of the two participants.
func Includes(conversationID, userID string) bool {
	a, b, ok := Participants(conversationID)
	return ok && (a == userID || b == userID)
}
