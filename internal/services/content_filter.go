package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrContentRejected = errors.New("content rejected")

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// spamRunLength is how many identical characters in a row count as spam.
const spamRunLength = 6

const repeatableChars = "abcdefghijklmnopqrstuvwxyz0123456789!?.,-_*#@$%&+=~/\\|<>^"

// ContentFilter screens public free-text input (advisor questions and app
// requests) before it reaches the LLM or the admin queue.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWordRegexps:   make([]*regexp.Regexp, 0, len(BannedWords)),
		urlPattern:          regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		repeatedCharPattern: repeatedRunPattern(repeatableChars, spamRunLength),
	}
	for _, word := range BannedWords {
		if re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`); err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}
	return f
}

// repeatedRunPattern matches n or more repeats of any char in chars. RE2 has
// no backreferences, so each character gets its own alternative.
func repeatedRunPattern(chars string, n int) *regexp.Regexp {
	alts := make([]string, 0, len(chars))
	for _, r := range chars {
		alts = append(alts, fmt.Sprintf("%s{%d,}", regexp.QuoteMeta(string(r)), n))
	}
	return regexp.MustCompile("(?i)(" + strings.Join(alts, "|") + ")")
}

// Check returns an *InputError wrapping ErrContentRejected when text
// breaks the content rules, nil otherwise.
func (f *ContentFilter) Check(text string) error {
	if reason := f.reason(text); reason != "" {
		return &InputError{Message: rejectionMessage(reason), Err: ErrContentRejected}
	}
	return nil
}

func (f *ContentFilter) reason(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return "inappropriate_language"
		}
	}
	if f.urlPattern.MatchString(text) {
		return "url_not_allowed"
	}
	if f.repeatedCharPattern.MatchString(text) {
		return "spam_detected"
	}
	return ""
}

func rejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language": "Your message contains inappropriate language.",
		"url_not_allowed":        "URLs and web links are not allowed.",
		"spam_detected":          "Your message appears to be spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your message does not meet our content guidelines."
}
