package chat

import (
	"regexp"

	"github.com/xelth-com/esimchatgo/internal/orders"
)

// State is the dialogue gate's decision for one turn. No state is ever
// stored; each request recomputes it from the identifiers, the match
// result and the device info.
type State int

const (
	// StateNeedIdentifier: no usable order number yet, ask for one.
	StateNeedIdentifier State = iota
	// StateIdentifierNotFound: an order number was given but matches nothing.
	StateIdentifierNotFound
	// StateIdentifiedNeedDevice: order located, handset still unknown.
	StateIdentifiedNeedDevice
	// StateFreeForm: identity established (or gating disabled), answer freely.
	StateFreeForm
)

func (s State) String() string {
	switch s {
	case StateNeedIdentifier:
		return "need_identifier"
	case StateIdentifierNotFound:
		return "identifier_not_found"
	case StateIdentifiedNeedDevice:
		return "identified_need_device"
	default:
		return "free_form"
	}
}

// resolveState decides the dialogue state for one turn. Pure: every
// branch is testable without a dataset or a completion service. The
// ungated variant skips order-number gating entirely and shares all of
// the matcher/prompt logic with the gated one.
func resolveState(orderCandidate string, matched []orders.Record, device Device, gated bool) State {
	if !gated {
		return StateFreeForm
	}
	if len(orderCandidate) < orders.MinOrderDigits {
		return StateNeedIdentifier
	}
	if len(matched) == 0 {
		return StateIdentifierNotFound
	}
	if !device.Known() {
		return StateIdentifiedNeedDevice
	}
	return StateFreeForm
}

// Plan is the renderable outcome of the gate: which state we are in and
// the facts the reply is allowed to disclose. Deciding what to say is
// separated from phrasing it, so gate tests never need a live model.
type Plan struct {
	State          State
	Language       string
	OrderCandidate string
	Matched        []orders.Record
	Suggestions    []string // near-miss order numbers, hints only
	HintMatches    []orders.Record
	Failures       int // prior not-found replies seen in history
	Device         Device
}

var notFoundMarkers = regexp.MustCompile(
	`(?i)order not found|заказ не найден|замовлення не знайдено`)

// countFailedLookups derives the failed-attempt counter by scanning the
// history for earlier not-found replies. After two failures the
// not-found response starts offering extra help.
func countFailedLookups(history []Message) int {
	n := 0
	for _, m := range history {
		if m.Role == "assistant" && notFoundMarkers.MatchString(m.Content) {
			n++
		}
	}
	return n
}
