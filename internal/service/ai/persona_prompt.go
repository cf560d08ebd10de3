package ai

import (
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/po-simulator/backend/internal/model/chat"
)

// languageDirective keeps every persona answering in German.
const languageDirective = "Antworte immer auf Deutsch, egal in welcher Sprache die Frage gestellt wird."

// newChatTemplate lays out the message sequence sent to the model:
// persona prompt, language directive, optional event line, history, user.
func newChatTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.SystemMessage("{language}"),
		schema.MessagesPlaceholder("event", true),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)
}

func buildChainInput(req ReplyRequest) map[string]any {
	return map[string]any{
		"system":   req.RoleID.Prompt(),
		"language": languageDirective,
		"event":    buildEventMessages(req.EventID, req.EventDescription),
		"history":  buildHistoryMessages(req.History),
		"query":    req.Message,
	}
}

// eventContextLine embeds the event verbatim.
func eventContextLine(eventID, description string) string {
	return fmt.Sprintf("AKTUELLER EVENT [%s]: %s", eventID, description)
}

func buildEventMessages(eventID, description string) []*schema.Message {
	if eventID == "" || description == "" {
		return nil
	}
	return []*schema.Message{schema.SystemMessage(eventContextLine(eventID, description))}
}

func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		if turn.FromUser() {
			history = append(history, schema.UserMessage(turn.Content))
		} else {
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}
