package config

import "strings"

// Language names whisper accepts in place of a code.
var languageNames = map[string]string{
	"en":  "English",
	"eng": "English",
	"tr":  "Turkish",
	"tur": "Turkish",
	"de":  "German",
	"deu": "German",
	"fr":  "French",
	"fra": "French",
	"es":  "Spanish",
	"spa": "Spanish",
	"ja":  "Japanese",
	"jpn": "Japanese",
	"ko":  "Korean",
	"kor": "Korean",
	"zh":  "Chinese",
	"zho": "Chinese",
}

// WhisperLanguage maps a language code to the value passed to whisper's
// --language flag. It returns "" for auto-detection.
func WhisperLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "auto" {
		return ""
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
