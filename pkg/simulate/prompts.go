package simulate

import (
	"bytes"
	"text/template"
)

// noResponseSentinel stands in for the previous agent reply when the agent
// said nothing before a steer attempt.
const noResponseSentinel = "NO RESPONSE"

var (
	paraphrasePromptTemplate = template.Must(template.New("paraphrasePrompt").Parse(
		`You are role-playing a caller in a QA test. Adopt the persona '{{.Persona}}'. Restate the following line in your own words while preserving intent: '{{.UserInput}}'. Keep it under 20 words.`))

	steerPromptTemplate = template.Must(template.New("steerPrompt").Parse(
		`You are a QA caller ensuring the agent follows the script. Stay in persona '{{.Persona}}'. Craft a short sentence that politely redirects the agent toward: '{{.UserInput}}'. The agent previously responded with: '{{.LastAgentResponse}}'.`))
)

type ParaphrasePromptData struct {
	Persona   string
	UserInput string
}

type SteerPromptData struct {
	Persona           string
	UserInput         string
	LastAgentResponse string
}

func BuildParaphrasePrompt(data ParaphrasePromptData) (string, error) {
	var out bytes.Buffer
	if err := paraphrasePromptTemplate.Execute(&out, data); err != nil {
		return "", err
	}

	return out.String(), nil
}

func BuildSteerPrompt(data SteerPromptData) (string, error) {
	if data.LastAgentResponse == "" {
		data.LastAgentResponse = noResponseSentinel
	}

	var out bytes.Buffer
	if err := steerPromptTemplate.Execute(&out, data); err != nil {
		return "", err
	}

	return out.String(), nil
}
