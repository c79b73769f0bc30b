package model

import (
	"time"
)

// Role represents the role of a message sent to the chat endpoint.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Sender identifies who wrote a chat tester message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Role maps the sender onto the chat API role.
func (s Sender) Role() Role {
	if s == SenderAI {
		return RoleAssistant
	}
	return RoleUser
}

// ChatMessage is a chat tester message. It only lives in memory.
type ChatMessage struct {
	Sender  Sender   `json:"sender"`
	Text    string   `json:"text"`
	Time    string   `json:"time"`
	Context []string `json:"context,omitempty"`
}

// NewChatMessage creates a message stamped with the given time.
func NewChatMessage(sender Sender, text string, at time.Time) ChatMessage {
	return ChatMessage{
		Sender: sender,
		Text:   text,
		Time:   at.Format("15:04"),
	}
}

// Message is one turn of the chat request history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	TenantID string         `json:"tenant_id"`
	UserID   string         `json:"user_id"`
	Metadata map[string]any `json:"metadata"`
	Channel  string         `json:"channel"`
	Messages []Message      `json:"messages"`
}

// Bubble is one chunk of a split reply.
type Bubble struct {
	Text    string `json:"text"`
	DelayMs *int   `json:"delay_ms,omitempty"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	FullText         string         `json:"full_text"`
	RetrievedContext []string       `json:"retrieved_context,omitempty"`
	Bubbles          []Bubble       `json:"bubbles,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}
