package analytics

import (
	"unicode"

	"github.com/crm-analytics-service/internal/models"
)

// hebrewThreshold is the portion of letters that must be Hebrew for a
// body of text to be classified as Hebrew.
const hebrewThreshold = 0.3

// DetectLanguage classifies the combined free text of the given meetings
// as Hebrew when more than 30% of its letters are in the Hebrew block,
// English otherwise. Empty input is English.
func DetectLanguage(meetings []models.MeetingRecord) models.Language {
	var letters, hebrew int
	for _, m := range meetings {
		l, h := countLetters(m.Text())
		letters += l
		hebrew += h
	}
	return classify(letters, hebrew)
}

// detectMeetingLanguage classifies a single meeting, used for the
// per-meeting language distribution.
func detectMeetingLanguage(m models.MeetingRecord) models.Language {
	letters, hebrew := countLetters(m.Text())
	return classify(letters, hebrew)
}

func classify(letters, hebrew int) models.Language {
	if letters == 0 {
		return models.LanguageEnglish
	}
	if float64(hebrew)/float64(letters) > hebrewThreshold {
		return models.LanguageHebrew
	}
	return models.LanguageEnglish
}

func countLetters(text string) (letters, hebrew int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Hebrew, r) {
			hebrew++
		}
	}
	return letters, hebrew
}
