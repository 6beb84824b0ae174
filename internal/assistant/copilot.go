package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pders01/omnivault/internal/ai"
	"github.com/pders01/omnivault/internal/graph"
	"github.com/pders01/omnivault/internal/models"
	"github.com/pders01/omnivault/internal/vault"
)

// FallbackReply is recorded when the chat backend fails.
const FallbackReply = "Neural link disrupted. Error synchronizing with Vault."

// Copilot is the conversational view over the vault.
type Copilot struct {
	chatter ai.Chatter
	store   *vault.Store
	history ChatHistory
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
}

// NewCopilot creates a Copilot, loading any saved history.
func NewCopilot(chatter ai.Chatter, store *vault.Store, history ChatHistory, logger *slog.Logger) *Copilot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Copilot{
		chatter:  chatter,
		store:    store,
		history:  history,
		logger:   logger,
		now:      time.Now,
		messages: history.LoadChatHistory(),
	}
}

// History returns the conversation so far.
func (c *Copilot) History() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage{}, c.messages...)
}

func (c *Copilot) append(msg models.ChatMessage) []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return append([]models.ChatMessage{}, c.messages...)
}

func (c *Copilot) save(messages []models.ChatMessage) {
	if err := c.history.SaveChatHistory(messages); err != nil {
		c.logger.Error("failed to save chat history", "error", err)
	}
}

// Send records text as a user message, asks the chat backend for a reply and
// records that too. Note ids the reply cites as [id] become LinkedNoteIDs.
// When the backend fails, a fallback reply is recorded and the error returned.
func (c *Copilot) Send(ctx context.Context, text string, onChunk func(string)) (models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, ErrEmptyInput
	}

	prior := c.History()
	c.save(c.append(models.ChatMessage{
		ID:        newMessageID(),
		Role:      models.RoleUser,
		Text:      text,
		Timestamp: c.now().UnixMilli(),
	}))

	notes := c.store.All()
	reply, err := c.chatter.Chat(ctx, ai.ChatRequest{Message: text, History: prior, Notes: notes}, onChunk)

	msg := models.ChatMessage{
		ID:        newMessageID(),
		Role:      models.RoleAssistant,
		Timestamp: c.now().UnixMilli(),
	}
	if err != nil {
		msg.Text = FallbackReply
		c.save(c.append(msg))
		return msg, fmt.Errorf("failed to get chat reply: %w", err)
	}

	if strings.TrimSpace(reply) == "" {
		reply = "..."
	}
	msg.Text = reply
	msg.LinkedNoteIDs = graph.LinkedNoteIDs(reply, notes)
	c.save(c.append(msg))
	return msg, nil
}

// Clear deletes the conversation.
func (c *Copilot) Clear() error {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
	if err := c.history.SaveChatHistory(nil); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
