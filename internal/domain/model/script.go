package model

// ScriptMetadata is the metadata bundle the script collaborator returns
// alongside the narrative text.
type ScriptMetadata struct {
	Duration       int      `json:"duration"`
	Tone           string   `json:"tone"`
	Hashtags       []string `json:"hashtags"`
	TargetAudience string   `json:"target_audience"`
}

// GeneratedScript is the validated output of one script request: the
// UGC-style narrative, the derived render prompt and the metadata bundle.
type GeneratedScript struct {
	Script     string         `json:"script"`
	SoraPrompt string         `json:"sora_prompt"`
	Metadata   ScriptMetadata `json:"metadata"`
}
