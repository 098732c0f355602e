package orders

import "strings"

// Identifier usability thresholds. These are policy, not a formal format
// spec: order numbers in the export are short numeric IDs, ICCIDs are
// 19-20 digits in practice but anything 10+ is unambiguous here.
const (
	MinOrderDigits = 5
	MinICCIDDigits = 10
)

// Query carries the identifiers extracted from one chat turn. All fields
// are optional; normalization happens inside the matcher.
type Query struct {
	Email       string
	OrderNumber string
	ICCID       string
}

// DigitsOnly strips everything except ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindOrders matches records by strict single-criterion precedence:
// order number, then ICCID, then email. Criteria are never combined; a
// weaker identifier is consulted only when every stronger one is unusable.
// Equality is exact on normalized values, so a shared email can never
// widen an order-number lookup.
func (d *Dataset) FindOrders(q Query) []Record {
	emailQ := strings.ToLower(strings.TrimSpace(q.Email))
	orderQ := DigitsOnly(strings.TrimSpace(q.OrderNumber))
	iccidQ := DigitsOnly(strings.TrimSpace(q.ICCID))

	useOrder := len(orderQ) >= MinOrderDigits
	useICCID := len(iccidQ) >= MinICCIDDigits
	useEmail := len(emailQ) > 0

	if !useOrder && !useICCID && !useEmail {
		return nil
	}

	var matched []Record
	for _, rec := range d.Records() {
		switch {
		case useOrder:
			if DigitsOnly(rec.Get("order_number", "ordernumber")) == orderQ {
				matched = append(matched, rec)
			}
		case useICCID:
			if DigitsOnly(rec.Get("iccid")) == iccidQ {
				matched = append(matched, rec)
			}
		default:
			if strings.ToLower(rec.Get("email", "e_mail", "email_address")) == emailQ {
				matched = append(matched, rec)
			}
		}
	}
	return matched
}

// SuggestOrderNumbers returns order numbers that look close to the given
// candidate (shared suffix or containment). These are presentation-layer
// hints for a not-found reply and are never treated as a match.
func (d *Dataset) SuggestOrderNumbers(candidate string, limit int) []string {
	cand := DigitsOnly(candidate)
	if len(cand) < MinOrderDigits || limit <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var suggestions []string
	for _, rec := range d.Records() {
		num := DigitsOnly(rec.Get("order_number", "ordernumber"))
		if num == "" || num == cand || seen[num] {
			continue
		}
		if strings.Contains(num, cand) || strings.Contains(cand, num) ||
			sharedSuffix(num, cand) >= MinOrderDigits-1 {
			seen[num] = true
			suggestions = append(suggestions, rec.Get("order_number", "ordernumber"))
			if len(suggestions) >= limit {
				break
			}
		}
	}
	return suggestions
}

func sharedSuffix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
