package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/prompts/harmony_system_prompt.txt
var HarmonySystemPromptTxt []byte

//go:embed data/prompts/bass_system_prompt.txt
var BassSystemPromptTxt []byte

//go:embed data/prompts/drums_system_prompt.txt
var DrumsSystemPromptTxt []byte

//go:embed data/prompts/output_format_instructions.txt
var OutputFormatInstructionsTxt []byte

//go:embed data/core_data/style_guidelines.txt
var StyleGuidelinesTxt []byte
