package paperfly

import (
	"regexp"
	"strings"
)

// The tracker endpoint answers with an inline-script fragment that stuffs
// values into form fields with jQuery. Nothing about it is documented, so
// extraction is pattern matching over the known call shapes.
var (
	// $("#order_status_eng").val("In Transit") and the .html(...) twin.
	idAssign = regexp.MustCompile(`\$\(\s*["']#([\w-]+)["']\s*\)\s*\.(?:val|html)\(\s*["']([^"']*)["']\s*\)`)

	// Bare .val("...") / .html("...") chained off something we could not
	// attribute to a field id.
	bareAssign = regexp.MustCompile(`\.(?:val|html)\(\s*["']([^"']*)["']\s*\)`)

	htmlTag = regexp.MustCompile(`<[^>]*>`)
)

// statusProbeFields are the status synonyms probed directly against the raw
// text when no structured assignment carries one.
var statusProbeFields = []string{"order_status_eng", "order_status", "status", "delivery_status"}

// ParseTracker extracts field values from a tracker response fragment.
// Values assigned via $("#id") land under that id; unattributed assignments
// are ignored unless no id-keyed value exists at all. HTML tags inside values
// are stripped. The result may be empty; it is never an error.
func ParseTracker(text string) map[string]string {
	fields := make(map[string]string)

	for _, m := range idAssign.FindAllStringSubmatch(text, -1) {
		key := m[1]
		value := cleanValue(m[2])
		if value == "" {
			continue
		}
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}

	return fields
}

// ExtractTrackerStatus resolves a delivery status from a tracker fragment,
// trying id-keyed assignments first, then raw-text probes for the known
// status field synonyms, then any unattributed assignment. Empty string
// means nothing recognizable was found.
func ExtractTrackerStatus(text string) string {
	fields := ParseTracker(text)
	for _, key := range statusProbeFields {
		if v := fields[key]; v != "" {
			return v
		}
	}

	for _, key := range statusProbeFields {
		if v := probeField(text, key); v != "" {
			return v
		}
	}

	if m := bareAssign.FindStringSubmatch(text); m != nil {
		return cleanValue(m[1])
	}
	return ""
}

// probeField looks for key:"value" / key="value" directly in the raw text.
func probeField(text, key string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `["']?\s*[:=]\s*["']([^"']+)["']`)
	if m := re.FindStringSubmatch(text); m != nil {
		return cleanValue(m[1])
	}
	return ""
}

func cleanValue(v string) string {
	v = htmlTag.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}
