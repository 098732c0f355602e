package chat

import (
	"regexp"

	"github.com/xelth-com/esimchatgo/internal/orders"
)

// MinDigitRun is the shortest digit run worth classifying at all.
const MinDigitRun = 4

var digitRuns = regexp.MustCompile(`\d{4,}`)

// ExtractIdentifiers scans free-form text for the longest run of 4+
// consecutive digits and classifies it: 10+ digits is an ICCID, 5-9
// digits an order number, anything shorter is noise. Ties between runs of
// equal length go to the earliest occurrence. Heuristic, not a parser:
// it never fails, it just may find nothing.
func ExtractIdentifiers(text string) (orderNumber, iccid string) {
	runs := digitRuns.FindAllString(text, -1)
	longest := ""
	for _, run := range runs {
		if len(run) > len(longest) {
			longest = run
		}
	}

	switch {
	case len(longest) >= orders.MinICCIDDigits:
		return "", longest
	case len(longest) >= orders.MinOrderDigits:
		return longest, ""
	default:
		return "", ""
	}
}
