package types

import (
	"encoding/json"
	"fmt"
)

// MessageType defines the type of an inbound message.
type MessageType string

const (
	MessageTypeVoiceCommand MessageType = "voiceCommand" // MessageTypeVoiceCommand carries a raw transcript in PayloadData.
	MessageTypeTabActivated MessageType = "tabActivated" // MessageTypeTabActivated signals that the active tab changed.
)

// Message is an inbound message from the speech surface or the content
// extraction script. Page content pushes carry no Type, only WebpageContent.
type Message struct {
	// Type indicates the kind of message.
	Type MessageType `json:"type,omitempty"`

	// PayloadData is the raw transcript for voice commands.
	PayloadData string `json:"payloadData,omitempty"`

	// WebpageContent is extracted page text pushed by the content script.
	WebpageContent string `json:"webpageContent,omitempty"`
}

// NewVoiceCommand creates a voice command message.
func NewVoiceCommand(payload string) *Message {
	return &Message{
		Type:        MessageTypeVoiceCommand,
		PayloadData: payload,
	}
}

// NewPageContent creates a page content push message.
func NewPageContent(content string) *Message {
	return &Message{WebpageContent: content}
}

// IsVoiceCommand returns true if this message carries a voice command.
func (m *Message) IsVoiceCommand() bool {
	return m.Type == MessageTypeVoiceCommand
}

// IsPageContent returns true if this message pushes page content.
func (m *Message) IsPageContent() bool {
	return m.WebpageContent != ""
}

// IsTabActivated returns true if this message signals a tab switch.
func (m *Message) IsTabActivated() bool {
	return m.Type == MessageTypeTabActivated
}

// ParseMessage decodes a JSON inbound message. It fails when the payload is
// not a JSON object or carries none of the recognised fields.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	if !msg.IsVoiceCommand() && !msg.IsPageContent() && !msg.IsTabActivated() {
		return nil, fmt.Errorf("unrecognized message type %q", msg.Type)
	}
	return &msg, nil
}
