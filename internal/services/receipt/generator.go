package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/xelth-com/esimchatgo/internal/orders"
)

// ActivationQR renders the record's LPA activation string as a PNG QR
// code, the same payload the phone camera expects during eSIM install.
func ActivationQR(rec orders.Record) ([]byte, error) {
	lpa := rec.Get("lpa", "lpa_code", "activation_code", "qr_code")
	if lpa == "" {
		// Compose from the parts some exports ship instead.
		smdp := rec.Get("smdp", "smdp_address", "sm_dp_address")
		matching := rec.Get("matching_id", "matchingid")
		if smdp == "" || matching == "" {
			return nil, fmt.Errorf("record has no activation data")
		}
		lpa = fmt.Sprintf("LPA:1$%s$%s", smdp, matching)
	}

	png, err := qrcode.Encode(lpa, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activation QR: %w", err)
	}
	return png, nil
}

// OrderPDF creates a one-page order receipt with the plan details and
// the activation QR when the record carries one.
func OrderPDF(rec orders.Record) ([]byte, error) {
	orderNumber := rec.Get("order_number", "ordernumber")
	if orderNumber == "" {
		return nil, fmt.Errorf("record has no order number")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("eSIM Order %s", orderNumber), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, time.Now().UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	rows := []struct {
		label string
		value string
	}{
		{"Destination", rec.Get("geo", "country", "region")},
		{"Plan", rec.Get("data", "plan", "package")},
		{"Validity", rec.Get("validity", "days", "period")},
		{"Price", priceLine(rec)},
		{"Email", rec.Get("email", "e_mail", "email_address")},
		{"ICCID", rec.Get("iccid")},
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 8, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, row.value, "", 1, "L", false, 0, "")
	}

	// Activation QR is optional; the receipt is still useful without it.
	if png, err := ActivationQR(rec); err == nil {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Scan to install your eSIM:", "", 1, "L", false, 0, "")

		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader("activation_qr", imgOptions, bytes.NewReader(png))
		pdf.ImageOptions("activation_qr", 20, pdf.GetY()+2, 60, 60, false, imgOptions, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func priceLine(rec orders.Record) string {
	price := rec.Get("price", "amount", "total")
	if price == "" {
		return ""
	}
	if currency := rec.Get("currency"); currency != "" {
		return price + " " + currency
	}
	return price
}
