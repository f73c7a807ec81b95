package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatbot_OffTopicGetsRedirect(t *testing.T) {
	bot := NewChatbotService()

	for _, msg := range []string{
		"",
		"what's the weather today",
		"tell me a joke",
		"how do I cook pasta",
	} {
		assert.Equal(t, offTopicReply, bot.Reply(msg), "message: %q", msg)
	}
}

func TestChatbot_SingleKeywordNeedsAboutPhrase(t *testing.T) {
	bot := NewChatbotService()

	// One keyword alone does not clear the gate.
	assert.Equal(t, offTopicReply, bot.Reply("community"))

	// The same keyword with an about-phrase does.
	assert.NotEqual(t, offTopicReply, bot.Reply("what is the community?"))
}

func TestChatbot_TwoKeywordsClearTheGate(t *testing.T) {
	bot := NewChatbotService()
	assert.NotEqual(t, offTopicReply, bot.Reply("community posts"))
}

func TestChatbot_TopicSections(t *testing.T) {
	bot := NewChatbotService()

	tests := []struct {
		message  string
		contains string
	}{
		{"how does the cycle tracker work", "health tracker"},
		{"is my health data anonymous and private", "privacy"},
		{"how do i share a post with the community", "community feed"},
		{"tell me about the chat room", "community chat"},
		{"how do i register an account on the platform", "create an account"},
	}

	for _, tt := range tests {
		reply := bot.Reply(tt.message)
		assert.NotEqual(t, offTopicReply, reply, "message: %q", tt.message)
		assert.Contains(t, reply, tt.contains, "message: %q", tt.message)
	}
}

func TestChatbot_GenericPlatformQuestionGetsAbout(t *testing.T) {
	bot := NewChatbotService()
	assert.Equal(t, aboutReply, bot.Reply("what is sakhi junction"))
}
