// Package translation simulates the live translation console and the audio devices around it.
package translation

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Languages = []Language{
	{Code: "en", Name: "English", Flag: "🇺🇸"},
	{Code: "es", Name: "Spanish", Flag: "🇪🇸"},
	{Code: "fr", Name: "French", Flag: "🇫🇷"},
	{Code: "de", Name: "German", Flag: "🇩🇪"},
	{Code: "ja", Name: "Japanese", Flag: "🇯🇵"},
	{Code: "zh", Name: "Chinese", Flag: "🇨🇳"},
	{Code: "pt", Name: "Portuguese", Flag: "🇧🇷"},
	{Code: "ko", Name: "Korean", Flag: "🇰🇷"},
}

var Voices = []Voice{
	{ID: "natural", Name: "Natural"},
	{ID: "professional", Name: "Professional"},
	{ID: "friendly", Name: "Friendly"},
	{ID: "formal", Name: "Formal"},
}

func isLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

func isVoice(id string) bool {
	for _, v := range Voices {
		if v.ID == id {
			return true
		}
	}
	return false
}
