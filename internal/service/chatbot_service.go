package service

import "strings"

// ChatbotService answers questions about the platform itself with a small
// rule engine: a keyword gate decides whether the question is about the
// platform at all, then the first matching topic section provides the reply.
// No model calls, no state.
type ChatbotService struct{}

func NewChatbotService() *ChatbotService { return &ChatbotService{} }

var platformKeywords = []string{
	"sakhi", "junction", "platform", "app", "website", "community",
	"period", "cycle", "tracker", "track", "health", "wellness",
	"post", "posts", "story", "chat", "message", "anonymous", "privacy",
	"account", "register", "login", "password", "symptom", "mood",
	"support", "feature", "notification",
}

var aboutPhrases = []string{
	"what is", "what are", "tell me about", "how does", "how do i",
	"how can i", "who are", "help me", "explain",
}

const offTopicReply = "I'm Sakhi, the assistant for Sakhi Junction. I can help with " +
	"questions about our community posts, the health tracker, the chat room, " +
	"privacy and your account. What would you like to know?"

type botSection struct {
	triggers []string
	reply    string
}

var botSections = []botSection{
	{
		triggers: []string{"hello", "hi", "hey", "namaste"},
		reply: "Hello! I'm Sakhi, here to help you find your way around " +
			"Sakhi Junction. Ask me about the health tracker, community posts, " +
			"the chat room or privacy.",
	},
	{
		triggers: []string{"track", "tracker", "cycle", "period", "symptom", "mood", "water", "sleep", "weight", "medication"},
		reply: "The health tracker lets you log your cycle, symptoms, moods, water " +
			"intake, sleep, weight, exercise, medications and journal entries. It " +
			"predicts your next period and ovulation from your cycle history, and " +
			"all of it stays private to your account.",
	},
	{
		triggers: []string{"anonymous", "privacy", "private", "safe", "data", "secure"},
		reply: "Your privacy comes first. Health data is visible only to you, and " +
			"you can post or comment anonymously: your name is replaced with " +
			"\"Anonymous Sister\" and is never shown to other members.",
	},
	{
		triggers: []string{"post", "posts", "story", "share", "discussion", "community", "categor", "question"},
		reply: "The community feed is where women share stories, ask questions and " +
			"support each other across topics like menstrual health, mental health, " +
			"PCOS, nutrition, fitness and motherhood. You can like, comment, share, " +
			"and post anonymously whenever you prefer.",
	},
	{
		triggers: []string{"chat", "message", "talk", "room"},
		reply: "The community chat is a live room for members. Sign in, open the " +
			"chat page and you're connected; recent history loads automatically so " +
			"you can catch up on the conversation.",
	},
	{
		triggers: []string{"account", "register", "login", "sign", "password", "email"},
		reply: "You can create an account with just an email and password. Once " +
			"signed in you stay logged in for 24 hours per session, and you can " +
			"manage your profile from the account page.",
	},
}

const aboutReply = "Sakhi Junction is a wellness and community platform for women: " +
	"a judgment-free space combining a private health tracker, a supportive " +
	"community feed and a live chat room."

// Reply produces the bot's answer. Questions that do not clear the keyword
// gate get a redirect rather than a guess.
func (s *ChatbotService) Reply(message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return offTopicReply
	}

	if !onTopic(normalized) {
		return offTopicReply
	}

	words := fieldSet(normalized)
	for _, section := range botSections {
		for _, trigger := range section.triggers {
			if matchesTrigger(words, trigger) {
				return section.reply
			}
		}
	}

	return aboutReply
}

// onTopic requires two distinct platform keywords, or one keyword combined
// with an about-phrase, before the bot commits to an answer.
func onTopic(normalized string) bool {
	words := fieldSet(normalized)

	hits := 0
	for _, kw := range platformKeywords {
		if matchesTrigger(words, kw) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	if hits == 0 {
		return false
	}

	for _, phrase := range aboutPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

// matchesTrigger does whole-word matching plus prefix matching for stems
// like "categor".
func matchesTrigger(words map[string]struct{}, trigger string) bool {
	if _, ok := words[trigger]; ok {
		return true
	}
	for w := range words {
		if strings.HasPrefix(w, trigger) {
			return true
		}
	}
	return false
}

func fieldSet(normalized string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, normalized)

	words := map[string]struct{}{}
	for _, w := range strings.Fields(cleaned) {
		words[w] = struct{}{}
	}
	return words
}
