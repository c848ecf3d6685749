package prompts

import (
	_ "embed"
)

// AgentPrefix still carries the {{.tool_descriptions}} placeholder, the only
// one the agent fills in the prefix. Any other {{ }} key fails at run time.
//
//go:embed prefix.txt
var AgentPrefix string
