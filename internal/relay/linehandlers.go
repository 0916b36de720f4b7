package relay

import "regexp"

var plusPlusRe = regexp.MustCompile(`\b(\S{2,})(\+\+|--)(?:\s*[.,]?\s+(.*)|\.\s*$|$)`)

var vamosQuestionRe = regexp.MustCompile(`(?i)\b(?:¿)?vamos\?\s*$`)

func registerLineHandlers(d *CommandDispatcher) {
	d.lineHandlers = append(d.lineHandlers,
		lineHandler{re: plusPlusRe, handler: plusPlusHandler},
		lineHandler{re: vamosQuestionRe, handler: vamosQuestionHandler},
	)
}

// plusPlusHandler implements the {item}++ / {item}-- scoring convention.
func plusPlusHandler(e *ChatEngine, u *User, body string) {
	m := plusPlusRe.FindStringSubmatch(body)

	if m == nil || u.Channel == nil {
		return
	}

	item, op, note := m[1], m[2], m[3]

	if op == "++" {
		u.Channel.IncrementScore(e, item, note)
	} else {
		u.Channel.DecrementScore(e, item, note)
	}

	e.incVersionLocked()
}

// vamosQuestionHandler is a running joke: "vamos" is a statement, never a
// question.
func vamosQuestionHandler(e *ChatEngine, u *User, _ string) {
	e.reply(u, `"vamos" is a statement, not a question!`)
}
