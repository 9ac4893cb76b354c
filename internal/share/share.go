// Package share builds chat links that open an entry in ChatGPT or Claude.
package share

import (
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

type Target int

const (
	ChatGPT Target = iota
	Claude
)

func (t Target) String() string {
	if t == Claude {
		return "Claude"
	}
	return "ChatGPT"
}

const chatGPTPrompt = `below is my journal entry. wyt? talk through it with me like a friend. don't therapize me and give me a whole breakdown, don't repeat my thoughts with headings. really take all of this, and tell me back stuff truly as if you're an old homie.

Keep it casual, dont say yo, help me make new connections i don't see, comfort, validate, challenge, all of it. dont be afraid to say a lot. format with markdown headings if needed.

do not just go through every single thing i say, and say it back to me. you need to process everything i say, make connections i don't see it, and deliver it all back to me as a story that makes me feel what you think i wanna feel. thats what the best therapists do.

ideally, your style/tone should sound like the user themselves. it's as if the user is hearing their own tone but it should still feel different, because you have different things to say and don't just repeat back what they say.

else, start by saying, "hey, thanks for showing me this. my thoughts:"

my entry:
`

const claudePrompt = `Take a look at my journal entry below. I'd like you to analyze it and respond with deep insight that feels personal, not clinical.
Imagine you're not just a friend, but a mentor who truly gets both my tech background and my psychological patterns. I want you to uncover the deeper meaning and emotional undercurrents behind my scattered thoughts.
Keep it casual, dont say yo, help me make new connections i don't see, comfort, validate, challenge, all of it. dont be afraid to say a lot. format with markdown headings if needed.
Use vivid metaphors and powerful imagery to help me see what I'm really building. Organize your thoughts with meaningful headings that create a narrative journey through my ideas.
Don't just validate my thoughts - reframe them in a way that shows me what I'm really seeking beneath the surface. Go beyond the product concepts to the emotional core of what I'm trying to solve.
Be willing to be profound and philosophical without sounding like you're giving therapy. I want someone who can see the patterns I can't see myself and articulate them in a way that feels like an epiphany.
Start with 'hey, thanks for showing me this. my thoughts:' and then use markdown headings to structure your response.

Here's my journal entry:
`

// Prompt wraps text in the target's prompt.
func Prompt(t Target, text string) string {
	if t == Claude {
		return claudePrompt + text
	}
	return chatGPTPrompt + text
}

// URL is the link that opens a new chat seeded with the prompt.
func URL(t Target, text string) string {
	q := escape(Prompt(t, text))
	if t == Claude {
		return "https://claude.ai/new?q=" + q
	}
	return "https://chat.openai.com/?m=" + q
}

// Copy puts the link on the system clipboard and returns it.
func Copy(t Target, text string) (string, error) {
	u := URL(t, text)
	return u, clipboard.WriteAll(u)
}

// escape matches encodeURIComponent: spaces become %20, not '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
