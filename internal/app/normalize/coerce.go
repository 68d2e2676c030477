package normalize

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// lookup resolves a dotted path ("user.screen_name") inside nested objects.
func lookup(fields map[string]any, path string) (any, bool) {
	var current any = fields
	for _, part := range strings.Split(path, ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// firstString returns the first candidate that holds a non-blank scalar.
func firstString(fields map[string]any, paths []string) string {
	for _, path := range paths {
		value, ok := lookup(fields, path)
		if !ok {
			continue
		}
		if text := scalarString(value); text != "" {
			return text
		}
	}
	return ""
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int64, int32, uint, uint64, uint32:
		return cast.ToString(v)
	default:
		return ""
	}
}

// firstFloat returns the first candidate that coerces to a finite number.
func firstFloat(fields map[string]any, paths []string) (float64, bool) {
	for _, path := range paths {
		value, ok := lookup(fields, path)
		if !ok {
			continue
		}
		if number, ok := toFloat(value); ok {
			return number, true
		}
	}
	return 0, false
}

var numberDecorations = strings.NewReplacer("$", "", ",", "", "%", "", "_", "", " ", "")

func toFloat(value any) (float64, bool) {
	var (
		number float64
		err    error
	)
	switch v := value.(type) {
	case bool, nil, map[string]any, []any:
		return 0, false
	case json.Number:
		number, err = strconv.ParseFloat(v.String(), 64)
	case string:
		cleaned := numberDecorations.Replace(strings.TrimSpace(v))
		cleaned = strings.TrimPrefix(cleaned, "+")
		if cleaned == "" {
			return 0, false
		}
		number, err = cast.ToFloat64E(cleaned)
	default:
		number, err = cast.ToFloat64E(v)
	}
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

// firstTime returns the first candidate that parses as a timestamp, in UTC.
func firstTime(fields map[string]any, paths []string) *time.Time {
	for _, path := range paths {
		value, ok := lookup(fields, path)
		if !ok {
			continue
		}
		if ts, ok := toTime(value); ok {
			return &ts
		}
	}
	return nil
}

const (
	millisThreshold = 1e12
	microsThreshold = 1e15
)

func toTime(value any) (time.Time, bool) {
	if text, ok := value.(string); ok {
		text = strings.TrimSpace(text)
		if text == "" {
			return time.Time{}, false
		}
		if ts, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return ts.UTC(), true
		}
		if compactDate(text) {
			if ts, err := dateparse.ParseIn(text, time.UTC); err == nil {
				return ts.UTC(), true
			}
		}
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			ts, err := dateparse.ParseIn(text, time.UTC)
			if err != nil {
				return time.Time{}, false
			}
			return ts.UTC(), true
		}
	}

	epoch, ok := toFloat(value)
	if !ok || epoch <= 0 {
		return time.Time{}, false
	}
	switch {
	case epoch >= microsThreshold:
		return time.UnixMicro(int64(epoch)).UTC(), true
	case epoch >= millisThreshold:
		return time.UnixMilli(int64(epoch)).UTC(), true
	default:
		sec, frac := math.Modf(epoch)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	}
}

// compactDate reports whether text looks like yyyy or yyyymmdd rather than
// an epoch value.
func compactDate(text string) bool {
	if len(text) != 4 && len(text) != 8 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// cleanText flattens HTML fragments to text and collapses whitespace.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// canonicalURL lowercases scheme and host and strips fragments and utm_*
// tracking parameters. Values that are not absolute http(s) URLs are dropped.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""

	query := parsed.Query()
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
