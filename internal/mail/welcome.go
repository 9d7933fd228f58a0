package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// WelcomeData feeds the welcome email templates.
type WelcomeData struct {
	AppName   string
	BaseURL   string
	FirstName string
	LastName  string
	Email     string
}

const welcomeText = `Hi {{.FirstName}},

Welcome to {{.AppName}}! Your account for {{.Email}} is ready.

Start planning your next trip at {{.BaseURL}}.
`

const welcomeHTML = `<!doctype html>
<html>
  <body>
    <h1>Welcome to {{.AppName}}, {{.FirstName}}!</h1>
    <p>Your account for <strong>{{.Email}}</strong> is ready.</p>
    <p><a href="{{.BaseURL}}">Start planning your next trip</a></p>
  </body>
</html>
`

// Renderer builds the messages sent by the signup flow.
type Renderer struct {
	from    string
	appName string
	baseURL string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer(from, appName, baseURL string) *Renderer {
	return &Renderer{
		from:    from,
		appName: appName,
		baseURL: baseURL,
		text:    texttemplate.Must(texttemplate.New("welcome.txt").Parse(welcomeText)),
		html:    htmltemplate.Must(htmltemplate.New("welcome.html").Parse(welcomeHTML)),
	}
}

// Welcome renders the greeting sent after a successful signup.
func (r *Renderer) Welcome(firstName, lastName, email string) (Message, error) {
	data := WelcomeData{
		AppName:   r.appName,
		BaseURL:   r.baseURL,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}

	var text, html bytes.Buffer
	if err := r.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render welcome text: %w", err)
	}
	if err := r.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render welcome html: %w", err)
	}

	return Message{
		From:    r.from,
		To:      email,
		Subject: fmt.Sprintf("Welcome to %s", r.appName),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
