package prompts

import (
	"bytes"
	"sort"
	"text/template"

	"github.com/tmc/langchaingo/tools"
)

type PrefixData struct {
	Tools    []string
	MaxSteps int
}

// GeneratePrefix renders the app-level parts of a prompt prefix. It uses [[ ]]
// delimiters so the agent's own {{ }} placeholders pass through untouched.
func GeneratePrefix(baseTemplate string, toolset []tools.Tool, maxSteps int) (string, error) {
	names := make([]string, 0, len(toolset))
	for _, tool := range toolset {
		names = append(names, tool.Name())
	}
	sort.Strings(names)

	data := PrefixData{
		Tools:    names,
		MaxSteps: maxSteps,
	}

	tmpl, err := template.New("prefix").Delims("[[", "]]").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
