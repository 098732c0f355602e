package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xelth-com/esimchatgo/internal/ai"
	"github.com/xelth-com/esimchatgo/internal/orders"
)

// ErrEmptyMessage rejects a turn before any side effect happens.
var ErrEmptyMessage = errors.New("message is required")

// freeFormMaxTokens caps the primary completion; auxiliary hint
// completions get a much tighter budget.
const (
	freeFormMaxTokens = 500
	auxHintMaxTokens  = 150
	maxOrderFacts     = 3
)

// Options is the per-request settings snapshot the dialogue runs under.
type Options struct {
	Gated           bool
	ResponseLength  string // "brief" or "detailed"
	DefaultLanguage string
	Scenarios       string
}

// GeoLookup resolves a client IP to a country guess. ok=false means "no
// hint"; failures never propagate.
type GeoLookup func(ctx context.Context, ip string) (countryName, countryCode string, ok bool)

// Request is one chat turn. History is resupplied wholesale by the
// caller; the server keeps no session state.
type Request struct {
	Message     string    `json:"message"`
	History     []Message `json:"history"`
	Email       string    `json:"email,omitempty"`
	Order       string    `json:"order,omitempty"`
	ICCID       string    `json:"iccid,omitempty"`
	DeviceMake  string    `json:"deviceMake,omitempty"`
	DeviceModel string    `json:"deviceModel,omitempty"`

	ClientIP string `json:"-"`
}

// Response is the assistant's turn. FollowUp, when present, is a second
// message the widget shows after a short delay.
type Response struct {
	Reply    string `json:"reply"`
	FollowUp string `json:"followUp,omitempty"`
}

// Service is the order-identity resolution and progressive-disclosure
// dialogue controller: it decides per turn what the assistant is allowed
// to say and composes the completion request for free-form answers.
type Service struct {
	Orders    *orders.Dataset
	Completer ai.Completer
	Geo       GeoLookup
	Resolver  *LanguageResolver
	Options   func() Options
}

func (s *Service) options() Options {
	if s.Options == nil {
		return Options{Gated: true}
	}
	return s.Options()
}

// Respond runs one turn of the dialogue.
func (s *Service) Respond(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Response{}, ErrEmptyMessage
	}
	opts := s.options()

	email, order, iccid := req.Email, req.Order, req.ICCID
	if email == "" && order == "" && iccid == "" {
		order, iccid = ExtractIdentifiers(req.Message)
	}

	matched := s.Orders.FindOrders(orders.Query{
		Email:       email,
		OrderNumber: order,
		ICCID:       iccid,
	})

	language := s.Resolver.Resolve(req.History, req.Message)

	device := Device{Make: strings.TrimSpace(req.DeviceMake), Model: strings.TrimSpace(req.DeviceModel)}
	if !device.Known() {
		device = ExtractDevice(req.Message)
	}

	candidate := orders.DigitsOnly(order)
	plan := Plan{
		State:          resolveState(candidate, matched, device, opts.Gated),
		Language:       language,
		OrderCandidate: candidate,
		Matched:        matched,
		Device:         device,
	}

	switch plan.State {
	case StateNeedIdentifier:
		// Whatever matched here came from email/ICCID; it enriches the
		// hint but never counts as identification.
		plan.HintMatches = matched
		return s.askForIdentifier(ctx, req, plan), nil
	case StateIdentifierNotFound:
		plan.Suggestions = s.Orders.SuggestOrderNumbers(candidate, 3)
		plan.Failures = countFailedLookups(req.History)
		return renderNotFound(plan), nil
	case StateIdentifiedNeedDevice:
		return renderOrderSummary(plan), nil
	default:
		return s.respondFreeForm(ctx, req, plan, opts)
	}
}

// askForIdentifier produces the "please send your order number" turn.
// Preferably phrased by a constrained auxiliary completion so it stays
// context-aware; the canned template is the degradation path.
func (s *Service) askForIdentifier(ctx context.Context, req Request, plan Plan) Response {
	t := templatesFor(plan.Language)

	hint := ""
	if nums := hintOrderNumbers(plan.HintMatches); len(nums) > 0 {
		hint = fmt.Sprintf(t.foundForHint, len(nums), strings.Join(nums, ", "))
	}

	if s.Completer != nil {
		instruction := "The user has not provided a usable order number yet. " +
			"Briefly ask for the exact order number (digits only, at least 5 digits) and mention " +
			"where to find it: the email receipt, the payment confirmation page, or the account's " +
			"order history. Do not answer the user's question yet. "
		if hint != "" {
			instruction += "Mention that these candidate order numbers were found for the contact " +
				"details provided, without treating any of them as confirmed: " +
				strings.Join(hintOrderNumbers(plan.HintMatches), ", ") + ". "
		}
		instruction += "Respond in " + plan.Language + ", 1-3 sentences."

		msgs := append([]ai.Message{{Role: "system", Content: instruction}}, toAIMessages(req.History)...)
		msgs = append(msgs, ai.Message{Role: "user", Content: req.Message})

		if reply, err := s.Completer.Complete(ctx, msgs, auxHintMaxTokens); err == nil && reply != "" {
			return Response{Reply: reply}
		} else if err != nil {
			log.Printf("⚠️ Chat: hint completion failed, using template: %v", err)
		}
	}

	reply := t.askOrder
	if hint != "" {
		reply += "\n\n" + hint
	}
	return Response{Reply: reply}
}

// renderNotFound phrases the not-found turn. Near-miss suggestions are
// hints only; after two failed attempts extra help is offered.
func renderNotFound(plan Plan) Response {
	t := templatesFor(plan.Language)

	reply := fmt.Sprintf(t.notFound, plan.OrderCandidate)
	if len(plan.Suggestions) > 0 {
		reply += "\n\n" + fmt.Sprintf(t.didYouMean, strings.Join(plan.Suggestions, ", "))
	}
	if plan.Failures >= 2 {
		reply += "\n\n" + t.extraHelp
	}
	return Response{Reply: reply}
}

// renderOrderSummary shows the matched order and asks for the device as
// a delayed follow-up.
func renderOrderSummary(plan Plan) Response {
	t := templatesFor(plan.Language)
	o := plan.Matched[0]

	lines := []string{
		t.summaryHeader,
		fmt.Sprintf("- %s: %s", t.labelOrder, o.Get("order_number", "ordernumber")),
		fmt.Sprintf("- %s: %s", t.labelEmail, o.Get("email", "e_mail", "email_address")),
		fmt.Sprintf("- %s: %s", t.labelCountry, o.Get("geo")),
		fmt.Sprintf("- %s: %s", t.labelPlan, o.Get("data")),
		fmt.Sprintf("- %s: %s %s", t.labelPrice, o.Get("price"), o.Get("currency")),
	}
	if v := o.Get("commission"); v != "" {
		lines = append(lines, "- Commission: "+v)
	}
	if v := o.Get("coupon"); v != "" {
		lines = append(lines, "- Coupon: "+v)
	}
	if v := o.Get("referring_site"); v != "" {
		lines = append(lines, "- Source: "+v)
	}
	lines = append(lines, fmt.Sprintf("- %s: %s", t.labelICCID, o.Get("iccid")))

	return Response{
		Reply:    strings.Join(lines, "\n"),
		FollowUp: t.askDevice,
	}
}

// respondFreeForm composes the full prompt and forwards the unmodified
// history to the completion service.
func (s *Service) respondFreeForm(ctx context.Context, req Request, plan Plan, opts Options) (Response, error) {
	msgs := []ai.Message{
		{Role: "system", Content: ai.BuildSystemPrompt(opts.Scenarios, opts.ResponseLength)},
	}

	if s.Geo != nil && req.ClientIP != "" {
		if name, code, ok := s.Geo(ctx, req.ClientIP); ok {
			if hint := ai.GeoHint(name, code); hint != "" {
				msgs = append(msgs, ai.Message{Role: "system", Content: hint})
			}
		}
	}

	if facts := orderFacts(plan.Matched); facts != "" {
		msgs = append(msgs, ai.Message{Role: "system", Content: facts})
	}

	if plan.Device.Known() {
		ctxLine := "User device:"
		if plan.Device.Make != "" {
			ctxLine += " make=" + plan.Device.Make
		}
		if plan.Device.Model != "" {
			ctxLine += " model=" + plan.Device.Model
		}
		ctxLine += ". Provide instructions specific to this device and common pitfalls for this vendor."
		msgs = append(msgs, ai.Message{Role: "system", Content: ctxLine})
	}

	msgs = append(msgs, ai.Message{Role: "system", Content: ai.LanguagePin(plan.Language)})
	msgs = append(msgs, toAIMessages(req.History)...)
	msgs = append(msgs, ai.Message{Role: "user", Content: req.Message})

	reply, err := s.Completer.Complete(ctx, msgs, freeFormMaxTokens)
	if err != nil {
		return Response{}, fmt.Errorf("completion failed: %w", err)
	}
	return Response{Reply: strings.TrimSpace(reply)}, nil
}

// orderFacts summarizes up to three matched records for the prompt.
func orderFacts(matched []orders.Record) string {
	if len(matched) == 0 {
		return ""
	}
	if len(matched) > maxOrderFacts {
		matched = matched[:maxOrderFacts]
	}

	facts := make([]string, 0, len(matched))
	for _, o := range matched {
		facts = append(facts, fmt.Sprintf("Order %s for %s: GEO=%s, Data=%s, Price=%s %s, ICCID=%s",
			o.Get("order_number", "ordernumber"),
			o.Get("email", "e_mail", "email_address"),
			o.Get("geo"),
			o.Get("data"),
			o.Get("price"),
			o.Get("currency"),
			o.Get("iccid")))
	}
	return fmt.Sprintf("User orders (top %d): %s. Use these facts to personalize activation guidance. "+
		"If the ICCID mismatches the device or operator, warn the user.",
		len(facts), strings.Join(facts, " | "))
}

func hintOrderNumbers(matched []orders.Record) []string {
	if len(matched) > maxOrderFacts {
		matched = matched[:maxOrderFacts]
	}
	var nums []string
	for _, o := range matched {
		if n := o.Get("order_number", "ordernumber"); n != "" {
			nums = append(nums, n)
		}
	}
	return nums
}

func toAIMessages(history []Message) []ai.Message {
	msgs := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}
