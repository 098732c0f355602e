package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xelth-com/esimchatgo/internal/ai"
	"github.com/xelth-com/esimchatgo/internal/orders"
)

const testOrdersCSV = "Order Number ,email,ICCID,GEO,Data,Price ,Currency\n" +
	"15622,alice@example.com,8937204016180003021,Turkey,10GB / 30 days,19.90,USD\n" +
	"15623,bob@example.com,8937204016180003022,Spain,5GB / 15 days,12.50,EUR\n" +
	"15624,alice@example.com,8937204016180003023,Italy,20GB / 30 days,29.00,USD\n"

type fakeCompleter struct {
	reply string
	err   error
	calls [][]ai.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, msgs []ai.Message, maxTokens int) (string, error) {
	f.calls = append(f.calls, msgs)
	return f.reply, f.err
}

func newTestService(t *testing.T, completer ai.Completer, gated bool) *Service {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "order.csv")
	if err := os.WriteFile(path, []byte(testOrdersCSV), 0o644); err != nil {
		t.Fatalf("Failed to write orders file: %v", err)
	}

	return &Service{
		Orders:    orders.NewDataset(filepath.Join(dir, "@order.csv"), path, orders.DefaultMaxAge),
		Completer: completer,
		Resolver:  NewLanguageResolver(ScriptFallback{}, "English"),
		Options: func() Options {
			return Options{Gated: gated, ResponseLength: "brief", DefaultLanguage: "English"}
		},
	}
}

func TestRespondRejectsEmptyMessage(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{}, true)
	if _, err := svc.Respond(context.Background(), Request{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Expected ErrEmptyMessage, got %v", err)
	}
}

func TestRespondAsksForIdentifier(t *testing.T) {
	// Completer failure forces the canned template path.
	svc := newTestService(t, &fakeCompleter{err: errors.New("provider down")}, true)

	resp, err := svc.Respond(context.Background(), Request{Message: "hello"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(resp.Reply, "order number") {
		t.Errorf("Expected ask-for-order reply, got %q", resp.Reply)
	}
	// No matched order data may leak before identification.
	for _, leak := range []string{"alice@example.com", "8937204016", "Turkey"} {
		if strings.Contains(resp.Reply, leak) {
			t.Errorf("Reply leaked order data %q: %q", leak, resp.Reply)
		}
	}
}

func TestRespondIdentifierHintFromEmail(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{err: errors.New("provider down")}, true)

	resp, err := svc.Respond(context.Background(), Request{
		Message: "I lost my order number",
		Email:   "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	// Candidate numbers for the email may be offered as a hint...
	if !strings.Contains(resp.Reply, "15622") || !strings.Contains(resp.Reply, "15624") {
		t.Errorf("Expected candidate order numbers in hint, got %q", resp.Reply)
	}
	// ...but the email lookup never counts as identification.
	if resp.FollowUp != "" {
		t.Errorf("Email-based matches must not produce the identified flow, got followUp %q", resp.FollowUp)
	}
}

func TestRespondNotFound(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{}, true)

	resp, err := svc.Respond(context.Background(), Request{Message: "99999"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(resp.Reply, "Order not found: 99999") {
		t.Errorf("Expected not-found reply, got %q", resp.Reply)
	}
	for _, leak := range []string{"alice@example.com", "bob@example.com", "8937204016"} {
		if strings.Contains(resp.Reply, leak) {
			t.Errorf("Not-found reply leaked record data %q: %q", leak, resp.Reply)
		}
	}
}

func TestRespondNotFoundExtraHelpAfterFailures(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{}, true)

	history := []Message{
		{Role: "user", Content: "99998"},
		{Role: "assistant", Content: "Order not found: 99998. Please check the digits."},
		{Role: "user", Content: "99997"},
		{Role: "assistant", Content: "Order not found: 99997. Please check the digits."},
	}
	resp, err := svc.Respond(context.Background(), Request{Message: "99999", History: history})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(resp.Reply, "Still no luck") {
		t.Errorf("Expected extra help after 2 failed attempts, got %q", resp.Reply)
	}
}

func TestRespondOrderSummary(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{}, true)

	resp, err := svc.Respond(context.Background(), Request{Message: "15622"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	for _, want := range []string{"15622", "Turkey", "10GB / 30 days", "19.90 USD", "8937204016180003021"} {
		if !strings.Contains(resp.Reply, want) {
			t.Errorf("Summary missing %q: %q", want, resp.Reply)
		}
	}
	if !strings.Contains(resp.FollowUp, "device") {
		t.Errorf("Expected ask-device follow-up, got %q", resp.FollowUp)
	}
	// Other customers' records stay private.
	if strings.Contains(resp.Reply, "bob@example.com") {
		t.Errorf("Summary leaked another record: %q", resp.Reply)
	}
}

func TestRespondStructuredAndExtractedAgree(t *testing.T) {
	svcA := newTestService(t, &fakeCompleter{}, true)
	svcB := newTestService(t, &fakeCompleter{}, true)

	byField, err := svcA.Respond(context.Background(), Request{Message: "where is my esim?", Order: "15622"})
	if err != nil {
		t.Fatalf("Respond (field) failed: %v", err)
	}
	byText, err := svcB.Respond(context.Background(), Request{Message: "my order is 15622"})
	if err != nil {
		t.Fatalf("Respond (text) failed: %v", err)
	}

	if byField.Reply != byText.Reply {
		t.Errorf("Structured and extracted order numbers must resolve identically:\n%q\nvs\n%q",
			byField.Reply, byText.Reply)
	}
}

func TestRespondFreeFormAfterDevice(t *testing.T) {
	fc := &fakeCompleter{reply: "Open Settings > Cellular and add the eSIM."}
	svc := newTestService(t, fc, true)

	history := []Message{
		{Role: "user", Content: "15622"},
		{Role: "assistant", Content: "Order summary: ..."},
	}
	resp, err := svc.Respond(context.Background(), Request{
		Message: "I use an iPhone 15 Pro, how do I install it?",
		Order:   "15622",
		History: history,
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if resp.Reply != fc.reply {
		t.Errorf("Expected completion reply, got %q", resp.Reply)
	}

	if len(fc.calls) != 1 {
		t.Fatalf("Expected exactly 1 completion call, got %d", len(fc.calls))
	}
	msgs := fc.calls[0]

	var systems []string
	for _, m := range msgs {
		if m.Role == "system" {
			systems = append(systems, m.Content)
		}
	}
	joined := strings.Join(systems, "\n")
	for _, want := range []string{"eSIM consultant", "Order 15622", "make=Apple", "Always answer in English"} {
		if !strings.Contains(joined, want) {
			t.Errorf("System turns missing %q", want)
		}
	}
	if msgs[len(msgs)-1].Role != "user" {
		t.Errorf("Prompt must end with the current user turn")
	}
}

func TestRespondUngatedGoesStraightToFreeForm(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure, here is how eSIM works."}
	svc := newTestService(t, fc, false)

	resp, err := svc.Respond(context.Background(), Request{Message: "what is an esim?"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if resp.Reply != fc.reply {
		t.Errorf("Ungated mode must answer freely, got %q", resp.Reply)
	}
	if len(fc.calls) != 1 {
		t.Errorf("Expected a completion call in ungated mode, got %d", len(fc.calls))
	}
}

func TestRespondCompletionFailureSurfaces(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{err: errors.New("rate limited")}, false)

	if _, err := svc.Respond(context.Background(), Request{Message: "what is an esim?"}); err == nil {
		t.Error("Primary completion failure must surface to the boundary")
	}
}

func TestRespondGeoHintDegradesToOmission(t *testing.T) {
	fc := &fakeCompleter{reply: "ok"}
	svc := newTestService(t, fc, false)
	svc.Geo = func(ctx context.Context, ip string) (string, string, bool) {
		return "", "", false // lookup failed
	}

	if _, err := svc.Respond(context.Background(), Request{Message: "hello esim", ClientIP: "203.0.113.7"}); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	for _, m := range fc.calls[0] {
		if m.Role == "system" && strings.Contains(m.Content, "User country") {
			t.Errorf("Failed geo lookup must omit the hint, found %q", m.Content)
		}
	}
}
