package chat

import (
	"regexp"
	"strings"
)

// Device is the handset the user installs the eSIM on, as far as we can
// tell from structured fields or free text.
type Device struct {
	Make  string
	Model string
}

func (d Device) Known() bool { return d.Make != "" || d.Model != "" }

var (
	appleWords    = regexp.MustCompile(`(?i)iphone|айфон|iphon|iph0ne`)
	iphoneModel   = regexp.MustCompile(`(?i)(?:iphone|айфон)\s*(\d{1,2}\s*(?:pro\s*max|pro|max)?)`)
	samsungWords  = regexp.MustCompile(`(?i)samsung|самсунг`)
	galaxyWord    = regexp.MustCompile(`(?i)galaxy`)
	galaxyModel   = regexp.MustCompile(`(?i)galaxy\s*([a-z]?\d{1,3}\s*(?:ultra|plus|fe)?)`)
	pixelWords    = regexp.MustCompile(`(?i)google\s*pixel|pixel`)
	pixelModel    = regexp.MustCompile(`(?i)pixel\s*(\d{1,2}\s*(?:pro|xl)?)`)
	xiaomiWords   = regexp.MustCompile(`(?i)xiaomi|redmi|сяоми|\bmi\s`)
	huaweiWords   = regexp.MustCompile(`(?i)huawei|honor|хуавей|хонор`)
	spaceCollapse = regexp.MustCompile(`\s+`)
)

// ExtractDevice guesses the user's handset from free text (English and
// Cyrillic spellings). Best effort: an empty Device just means "ask".
func ExtractDevice(text string) Device {
	if text == "" {
		return Device{}
	}

	if appleWords.MatchString(text) {
		d := Device{Make: "Apple"}
		if m := iphoneModel.FindStringSubmatch(text); m != nil {
			d.Model = "iPhone " + tidyModel(strings.ToUpper(m[1]))
		}
		return d
	}
	if samsungWords.MatchString(text) || galaxyWord.MatchString(text) {
		d := Device{Make: "Samsung"}
		if m := galaxyModel.FindStringSubmatch(text); m != nil {
			d.Model = "Galaxy " + tidyModel(strings.ToUpper(m[1]))
		}
		return d
	}
	if pixelWords.MatchString(text) {
		d := Device{Make: "Google"}
		if m := pixelModel.FindStringSubmatch(text); m != nil {
			d.Model = "Pixel " + tidyModel(strings.ToUpper(m[1]))
		}
		return d
	}
	if xiaomiWords.MatchString(text) {
		return Device{Make: "Xiaomi"}
	}
	if huaweiWords.MatchString(text) {
		return Device{Make: "Huawei"}
	}
	return Device{}
}

func tidyModel(s string) string {
	return strings.TrimSpace(spaceCollapse.ReplaceAllString(s, " "))
}
