package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"hema-storefront/internal/model"
)

// connector words kept lowercase unless they open the text
var lowercaseWords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"com": {}, "sem": {}, "e": {}, "em": {}, "para": {},
}

// TitleCase capitalizes every space separated word of text.
// Empty words produced by repeated spaces are preserved.
func TitleCase(text string) string {
	if text == "" {
		return ""
	}

	words := strings.Split(strings.ToLower(text), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		if _, ok := lowercaseWords[word]; ok && i > 0 {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// ParsePrice reads a currency amount such as "R$ 1.234,56" or 12.9.
// Everything but digits, commas and hyphens is dropped, the first comma becomes the
// decimal point and the longest numeric prefix is parsed. Missing, unparseable and
// negative amounts are 0. Numeric columns are taken as they are.
func ParsePrice(v any) float64 {
	switch n := v.(type) {
	case float64:
		return math.Max(n, 0)
	case float32:
		return math.Max(float64(n), 0)
	case int:
		return math.Max(float64(n), 0)
	case int64:
		return math.Max(float64(n), 0)
	}

	s, ok := rawString(v)
	if !ok {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)

	price := leadingFloat(cleaned)
	if price < 0 {
		return 0
	}
	return price
}

// ParseQuantity reads the leading base-10 integer of v; anything else is 0.
func ParseQuantity(v any) int {
	s, ok := rawString(v)
	if !ok {
		return 0
	}
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// Normalize converts a backend row into the canonical product.
func Normalize(row model.ProductRow) model.Product {
	return model.Product{
		Id:          string(row.Id),
		Name:        TitleCase(row.Name),
		Price:       ParsePrice(row.Price),
		Quantity:    ParseQuantity(row.Quantity),
		ImageUrl:    row.ImageUrl,
		Description: TitleCase(row.Description),
		CreatedAt:   parseCreatedAt(row.CreatedAt),
	}
}

func rawString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case []byte:
		return string(t), len(t) > 0
	default:
		s := fmt.Sprint(t)
		return s, s != ""
	}
}

// leadingFloat parses the longest prefix of s shaped like -?digits(.digits)?
func leadingFloat(s string) float64 {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	intEnd := end
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == intEnd+1 {
			end = intEnd
		}
	}
	if end == start || (intEnd == start && end == intEnd) {
		return 0
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
