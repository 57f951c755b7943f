// Package ruleparser is the offline, always-available regex classifier
// and entity extractor that the Intent Pipeline falls back to when the
// NL Parser is unavailable or fails.
package ruleparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/dateresolve"
	"github.com/dpinto-lab/chrono/internal/preferences"
)

type intentPattern struct {
	intent  command.Intent
	pattern *regexp.Regexp
}

// intentPatterns is checked in order; the first matching pattern wins.
// This is the exact dispatch order of the source classifier — its
// numeric "priority" field never actually reorders the scan, only the
// list position does, so that's what's reproduced here.
var intentPatterns = []intentPattern{
	{command.Help, regexp.MustCompile(`(?i)^(?:help|commands|what can you do|how do(?:es)? (?:this|it) work)\s*\??$`)},
	{command.Preferences, regexp.MustCompile(`(?i)\b(?:preferences?|settings?|blocked?\s*(?:slots?|times?)?|configure)\b`)},
	{command.FindOptimal, regexp.MustCompile(`(?i)\b(?:best\s+time|optimal|when\s+should\s+i|suggest|recommend)\b`)},
	{command.FindFree, regexp.MustCompile(`(?i)\b(?:free|available|open\s+slots?|when\s+am\s+i\s+free)\b`)},
	{command.Delete, regexp.MustCompile(`(?i)\b(?:delete|cancel|remove)\b`)},
	{command.Update, regexp.MustCompile(`(?i)\b(?:move|change|reschedule|update|push\s+back|bring\s+forward)\b`)},
	{command.Schedule, regexp.MustCompile(`(?i)\b(?:schedule|add|create|book|set\s+up|plan)\b`)},
	{command.List, regexp.MustCompile(`(?i)\b(?:list|show|what'?s\s+on|events|calendar|plans|agenda|what\s+(?:do\s+)?i\s+have|check\s+(?:my\s+)?(?:calendar|events|schedule)|is\s+there\s+anything|anything\s+(?:on|today|tomorrow)|do\s+i\s+have|what\s+(?:event|meeting)|have\s+i\s+got|what'?s\s+(?:on\s+)?(?:my\s+)?(?:today|tomorrow|schedule)|what\s+(?:about\s+|(?:is\s+)?(?:there\s+|happening\s+)?(?:on\s+|in\s+|for\s+)?)?(?:today|tomorrow|(?:this|next)\s+week|(?:next\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)))\b`)},
}

var (
	time12h         = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	time24h         = regexp.MustCompile(`\bat\s+(\d{1,2}):(\d{2})\b`)
	timeBare        = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
	timeBareExclude = regexp.MustCompile(`(?i)^\s*(?:am|pm|:\d|hours?|hrs?|h\b|minutes?|mins?|m\b)`)
	durationLong    = regexp.MustCompile(`(?i)\b(?:for\s+)?(\d+(?:\.\d+)?)\s*[-\s]*(hours?|hrs?|h|minutes?|mins?|m)\b`)
	timePrefRe   = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night)\b`)
	labelRe      = regexp.MustCompile(`(?i)\b(?:called|named|titled?|as)\s+["']?(.+?)["']?\s*$`)
	forActivity  = regexp.MustCompile(`(?i)\bfor\s+(\w[\w\s]*?)\s*$`)
	forDuration  = regexp.MustCompile(`(?i)^[\d.]+\s*(?:hour|hr|h|min|m)\b`)
	fillerWords  = regexp.MustCompile(`(?i)\b(?:a|an|the|my|me)\b`)
	trailingConn = regexp.MustCompile(`(?i)\b(?:at|on|for|from|to|in\s+the)\b\s*$`)
	whitespace   = regexp.MustCompile(`\s+`)

	verbPatterns = map[command.Intent]*regexp.Regexp{
		command.Schedule:     regexp.MustCompile(`(?i)^(?:schedule|add|create|book|set\s+up|plan)\s+`),
		command.Delete:       regexp.MustCompile(`(?i)^(?:delete|cancel|remove)\s+`),
		command.Update:       regexp.MustCompile(`(?i)^(?:move|change|reschedule|update)\s+`),
		command.FindOptimal:  regexp.MustCompile(`(?i)^(?:find\s+(?:the\s+)?best\s+time\s+for\s+(?:a\s+)?|suggest\s+(?:a\s+)?time\s+for\s+(?:a\s+)?|when\s+should\s+i\s+)`),
	}

	dateWordsRe  = regexp.MustCompile(`(?i)\b(?:today|tomorrow|yesterday|this\s+week|next\s+week)\b`)
	weekdayRe    = regexp.MustCompile(`(?i)\b(?:next\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	monthWordsRe = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s*\d{0,2}(?:st|nd|rd|th)?\b`)
)

var activityIntents = map[command.Intent]bool{
	command.Schedule:    true,
	command.Delete:      true,
	command.Update:      true,
	command.FindOptimal: true,
}

// Parse classifies user input and extracts entities offline, relative to
// now (used to resolve relative date references).
func Parse(userInput string, now time.Time) command.Command {
	text := strings.TrimSpace(userInput)
	if text == "" {
		return command.Command{Intent: command.Unknown, Raw: text, Confidence: 0}
	}

	intent := command.Unknown
	confidence := 0.0
	for _, ip := range intentPatterns {
		if ip.pattern.MatchString(text) {
			intent = ip.intent
			confidence = 0.9
			break
		}
	}

	label, textForActivity := extractLabel(text)

	dateResult := dateresolve.Resolve(text, now)
	t := extractTime(text)
	duration := extractDuration(text)
	timePref := extractTimePref(text)

	var activity string
	if activityIntents[intent] {
		activity = extractActivity(textForActivity, intent)
	}

	if intent != command.Unknown && (len(dateResult.Dates) > 0 || t != "" || activity != "") {
		confidence = minF(confidence+0.1, 1.0)
	}
	if intent == command.Unknown {
		confidence = 0.3
	}

	return command.Command{
		Intent:     intent,
		Activity:   activity,
		Label:      label,
		Dates:      dateResult.Dates,
		DateLabel:  dateResult.Label,
		Time:       t,
		Duration:   duration,
		TimeBias:   preferences.TimeBias(timePref),
		Confidence: confidence,
		Raw:        text,
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ExtractTime resolves a time-of-day fragment from free text. It is
// exported for the NL parser adapter's fallback: when a model returns a
// null time, the original input is re-scanned with the same regexes
// rather than asking the model to retry.
func ExtractTime(text string) string {
	return extractTime(text)
}

// extractTime resolves a time-of-day fragment. Bare hours ("at 2") use
// the stated convention: 1-6 is treated as PM, 7-12 as AM.
func extractTime(text string) string {
	if m := time12h.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return pad2(hour) + ":" + pad2(minute)
	}

	if m := time24h.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return pad2(hour) + ":" + pad2(minute)
	}

	if loc := timeBare.FindStringSubmatchIndex(text); loc != nil {
		if !timeBareExclude.MatchString(text[loc[1]:]) {
			hour, _ := strconv.Atoi(text[loc[2]:loc[3]])
			if hour >= 1 && hour <= 6 {
				hour += 12
			}
			if hour >= 0 && hour <= 23 {
				return pad2(hour) + ":00"
			}
		}
	}

	return ""
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func extractDuration(text string) int {
	m := durationLong.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "h") {
		return int(value * 60)
	}
	return int(value)
}

func extractTimePref(text string) string {
	m := timePrefRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	pref := strings.ToLower(m[1])
	if pref == "night" {
		return "evening"
	}
	return pref
}

func extractLabel(text string) (label string, rest string) {
	m := labelRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}
	lbl := text[m[2]:m[3]]
	lbl = strings.Trim(lbl, " \"'")
	return lbl, strings.TrimSpace(text[:m[0]])
}

// extractActivity strips known time/date/duration/filler fragments from
// text, leaving (hopefully) just the activity name.
func extractActivity(text string, intent command.Intent) string {
	cleaned := strings.TrimSpace(text)

	cleaned = stripPreamble(cleaned)

	var forMatch string
	if m := forActivity.FindStringSubmatch(cleaned); m != nil && !forDuration.MatchString(m[1]) {
		forMatch = strings.TrimSpace(m[1])
	}

	if pat, ok := verbPatterns[intent]; ok {
		cleaned = pat.ReplaceAllString(cleaned, "")
	}

	for _, r := range []*regexp.Regexp{
		time12h, time24h, timeBare, durationLong, timePrefRe,
		dateWordsRe, weekdayRe, monthWordsRe, trailingConn,
	} {
		cleaned = r.ReplaceAllString(cleaned, "")
	}

	cleaned = fillerWords.ReplaceAllString(cleaned, "")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " ,.-?!")

	if cleaned == "" && forMatch != "" {
		cleaned = forMatch
	}
	if forMatch != "" && len(strings.Fields(cleaned)) > 3 {
		cleaned = forMatch
	}

	return cleaned
}

var preambleRe = regexp.MustCompile(`(?i)^(?:(?:can|could|would)\s+you\s+(?:please\s+)?|please\s+|I\s+(?:want\s+to|need\s+to|'d\s+like\s+to)\s+)`)

func stripPreamble(text string) string {
	return preambleRe.ReplaceAllString(text, "")
}
