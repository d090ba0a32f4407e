package evaluate

import (
	"bytes"
	"text/template"
)

var judgePromptTemplate = template.Must(template.New("judgePrompt").Parse(
	`You are a QA judge reviewing a contact center call. Decide PASS or FAIL based solely on agent helpfulness and policy adherence. Respond with 'Pass:' or 'Fail:' followed by a concise justification under 40 words. Transcript:
{{.Transcript}}
Judgment:`))

type JudgePromptData struct {
	Transcript string
}

func BuildJudgePrompt(data JudgePromptData) (string, error) {
	var out bytes.Buffer
	if err := judgePromptTemplate.Execute(&out, data); err != nil {
		return "", err
	}

	return out.String(), nil
}
