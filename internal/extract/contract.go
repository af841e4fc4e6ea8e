package extract

import (
	"regexp"
	"strconv"
	"strings"

	"mietrecht-backend/internal/legal"
)

type labelPattern struct {
	re      *regexp.Regexp
	numeric bool
}

// Name-like fields need an explicit separator so prose such as
// "Der Vermieter verpflichtet sich" is not read as a name.
func textLabel(labels ...string) labelPattern {
	return labelPattern{
		re: regexp.MustCompile(`(?im)^[ \t]*(?:\d+[.)][ \t]*)?(?:` + strings.Join(labels, "|") +
			`)\b[ \t]*(?:\([^)\n]*\))?[ \t]*[:=][ \t]*(\S[^\n]*)$`),
	}
}

func numberLabel(labels ...string) labelPattern {
	return labelPattern{
		re: regexp.MustCompile(`(?im)^[ \t]*(?:\d+[.)][ \t]*)?(?:` + strings.Join(labels, "|") +
			`)\b[ \t]*(?:\([^)\n]*\))?[ \t]*(?:[:=]|in[ \t]+höhe[ \t]+von|of|beträgt)?[ \t]*([^\n]*\d[^\n]*)$`),
		numeric: true,
	}
}

var (
	landlordLabel = textLabel(`vermieter(?:in)?`, `landlord`, `lessor`)
	tenantLabel   = textLabel(`mieter(?:in)?`, `tenant`, `lessee`)
	addressLabel  = textLabel(`mietobjekt`, `anschrift(?:[ \t]+des[ \t]+mietobjekts)?`, `adresse`, `wohnung`, `address`, `property`, `premises`)
	rentLabel     = numberLabel(`netto-?kaltmiete`, `kaltmiete`, `grundmiete`, `monatliche[ \t]+miete`, `miete`, `(?:monthly[ \t]+)?(?:base[ \t]+|net[ \t]+)?rent`)
	areaLabel     = numberLabel(`wohnfläche`, `wohnflaeche`, `fläche`, `living[ \t]+(?:space|area)`, `floor[ \t]+area`)
	depositLabel  = numberLabel(`kaution`, `mietsicherheit`, `mietkaution`, `(?:security[ \t]+)?deposit`)

	depositLine = regexp.MustCompile(`(?im)^[ \t]*(?:\d+[.)][ \t]*)?(?:kaution|mietsicherheit|mietkaution|(?:security[ \t]+)?deposit)\b[ \t]*(?:\([^)\n]*\))?([^\n]*)$`)
	// rentMultiple matches a deposit stated in monthly rents: "3 Monatskaltmieten",
	// "drei Nettokaltmieten", "2 x Kaltmiete", "two months' rent".
	rentMultiple = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?|eine[r]?|ein|zwei|drei|vier|fünf|sechs|one|two|three|four|five|six)[ \t]*(?:x[ \t]*)?` +
		`(?:monats(?:kalt|netto|brutto)?mieten?|(?:netto-?)?kaltmieten?|months?'?[ \t]+(?:base[ \t]+|net[ \t]+)?rents?|monthly[ \t]+(?:base[ \t]+|net[ \t]+)?rents?)`)
	quantityWords = map[string]float64{
		"ein": 1, "eine": 1, "einer": 1, "zwei": 2, "drei": 3, "vier": 4, "fünf": 5, "sechs": 6,
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	}

	numberToken      = regexp.MustCompile(`\d[\d.,']*\d|\d`)
	trailingNoise    = regexp.MustCompile(`[\s,;]+$`)
	parentheticalEnd = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	collapseSpace    = regexp.MustCompile(`\s+`)
)

// ParseContract reads labelled contract fields from extracted text. Fields
// that cannot be found stay nil.
func ParseContract(text string) legal.ExtractedContractData {
	var data legal.ExtractedContractData
	if strings.TrimSpace(text) == "" {
		return data
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	data.LandlordName = findText(text, landlordLabel)
	data.TenantName = findText(text, tenantLabel)
	data.Address = findText(text, addressLabel)
	data.RentAmount = findNumber(text, rentLabel)
	data.SquareMeters = findNumber(text, areaLabel)
	data.Deposit = findDeposit(text, data.RentAmount)
	return data
}

// findDeposit resolves a deposit given as a multiple of the monthly rent
// against rent. Without a rent such a deposit stays nil instead of being
// read as a currency amount.
func findDeposit(text string, rent *float64) *float64 {
	for _, m := range depositLine.FindAllStringSubmatch(text, -1) {
		line := m[1]
		mult := rentMultiple.FindStringSubmatchIndex(line)
		if mult == nil {
			continue
		}
		if num := numberToken.FindStringIndex(line); num != nil && num[0] < mult[0] {
			// an explicit amount precedes the multiple
			continue
		}
		n, ok := quantity(line[mult[2]:mult[3]])
		if !ok || rent == nil {
			return nil
		}
		v := n * *rent
		return &v
	}
	return findNumber(text, depositLabel)
}

func quantity(raw string) (float64, bool) {
	if v, ok := quantityWords[strings.ToLower(raw)]; ok {
		return v, true
	}
	return ParseAmount(raw)
}

func findText(text string, p labelPattern) *string {
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		value := cleanText(m[1])
		if value != "" {
			return &value
		}
	}
	return nil
}

func findNumber(text string, p labelPattern) *float64 {
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		token := numberToken.FindString(m[1])
		if token == "" {
			continue
		}
		if v, ok := ParseAmount(token); ok {
			return &v
		}
	}
	return nil
}

func cleanText(raw string) string {
	value := parentheticalEnd.ReplaceAllString(raw, "")
	value = collapseSpace.ReplaceAllString(value, " ")
	value = trailingNoise.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}

// ParseAmount parses German ("1.234,56") and English ("1,234.56") number
// formats. A lone separator followed by exactly three digits is read as a
// thousands separator.
func ParseAmount(raw string) (float64, bool) {
	s := strings.NewReplacer(" ", "", "'", "", "\u00a0", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = normalizeSingleSeparator(s, ",")
	case lastDot >= 0:
		s = normalizeSingleSeparator(s, ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeSingleSeparator(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) > 2 {
		return strings.Join(parts, "")
	}
	if len(parts[1]) == 3 {
		return parts[0] + parts[1]
	}
	return parts[0] + "." + parts[1]
}
