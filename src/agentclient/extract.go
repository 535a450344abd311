package agentclient

import "github.com/sbellin/palaver/src/dispatch"

// textKeys are the conventional field names the generic extractor looks
// under, in preference order.
var textKeys = []string{"text", "content", "output", "message"}

// GenericText walks a decoded JSON value depth-first and returns the first
// non-empty string found under a conventional text key. Best-effort; returns
// "" when nothing fits.
func GenericText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		for _, key := range textKeys {
			if inner, ok := val[key]; ok {
				if text := GenericText(inner); text != "" {
					return text
				}
			}
		}
	case []any:
		for _, item := range val {
			if text := GenericText(item); text != "" {
				return text
			}
		}
	}
	return ""
}

// ChoicesText is the schema-specific accessor for chat-completions shaped
// responses: choices[0].message.content. The exact path is service-defined;
// callers may substitute their own accessor in the extractor chain.
func ChoicesText(v any) string {
	root, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	choices, ok := root["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return ""
	}
	content, _ := message["content"].(string)
	return content
}

// DefaultExtractors is the standard fallback chain: generic walk first, then
// the choices path. The dispatcher supplies the final literal tier.
func DefaultExtractors() []dispatch.Extractor {
	return []dispatch.Extractor{
		dispatch.ExtractorFunc(GenericText),
		dispatch.ExtractorFunc(ChoicesText),
	}
}
