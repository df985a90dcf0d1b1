package analyzer

// SystemPrompt frames the reviewer role for phrase analysis.
const SystemPrompt = `You review phrases that readers flagged in social media replies as sounding machine-written. Judge each phrase the way a regular person scrolling Twitter would. Answer with JSON only.`

// PhrasePrompt is filled with the phrase, the report and user counts, and
// the numbered sample contexts.
const PhrasePrompt = `Analyze if this phrase sounds artificial or AI-generated:

Phrase: "%s"
Reports: %d times by %d users

Sample contexts where it appeared:
%s

Determine:
1. Does this phrase genuinely sound artificial/AI-generated? (true/false)
2. Why does it sound artificial? (brief explanation)
3. What category does it fall into? (transition/opening/cliche/word/pattern)
4. Suggest a more natural replacement (or "remove" if it should be deleted)

Respond in JSON format:
{
  "is_ai_sounding": boolean,
  "reason": "string",
  "category": "string",
  "replacement": "string or null"
}`
