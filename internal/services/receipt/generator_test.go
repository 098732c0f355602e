package receipt

import (
	"bytes"
	"testing"

	"github.com/xelth-com/esimchatgo/internal/orders"
)

func TestActivationQR(t *testing.T) {
	rec := orders.Record{"lpa": "LPA:1$smdp.example.com$ABC-123"}
	png, err := ActivationQR(rec)
	if err != nil {
		t.Fatalf("Failed to encode QR: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("Expected PNG output")
	}
}

func TestActivationQRComposed(t *testing.T) {
	rec := orders.Record{
		"smdp":        "smdp.example.com",
		"matching_id": "ABC-123",
	}
	if _, err := ActivationQR(rec); err != nil {
		t.Fatalf("Expected composed LPA string to encode, got %v", err)
	}
}

func TestActivationQRMissingData(t *testing.T) {
	if _, err := ActivationQR(orders.Record{"order_number": "15622"}); err == nil {
		t.Error("Expected error for record without activation data")
	}
}

func TestOrderPDF(t *testing.T) {
	rec := orders.Record{
		"order_number": "15622",
		"geo":          "Turkey",
		"data":         "10GB / 30 days",
		"price":        "19.90",
		"currency":     "USD",
		"email":        "alice@example.com",
		"iccid":        "8937204016180003021",
	}
	pdf, err := OrderPDF(rec)
	if err != nil {
		t.Fatalf("Failed to render receipt: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Expected PDF output")
	}
}

func TestOrderPDFRequiresOrderNumber(t *testing.T) {
	if _, err := OrderPDF(orders.Record{"geo": "Turkey"}); err == nil {
		t.Error("Expected error for record without order number")
	}
}
