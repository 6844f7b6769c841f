package services

import (
	"bytes"
	"testing"
	"time"

	"onnrides/internal/payment"
)

func docFixture() bookingDocData {
	return bookingDocData{
		BookingID:       9,
		BookingRef:      "OR-DOC9XYZ",
		CustomerName:    "Meera",
		CustomerPhone:   "+919900445566",
		VehicleName:     "Honda Activa",
		PlateNumber:     "TS09AB1234",
		BookingType:     payment.BookingOffline,
		PickupDate:      "2026-09-05",
		DropoffDate:     "2026-09-07",
		RentalAmount:    180000,
		SecurityDeposit: 50000,
		TotalAmount:     230000,
		PaidAmount:      100000,
		PendingAmount:   130000,
		PaymentStatus:   payment.StatusPartiallyPaid,
		Collections: []docCollection{
			{Amount: 100000, Method: payment.MethodUPI, CollectedBy: "42", At: time.Now()},
		},
	}
}

func TestGenerateReceiptUsesInjectedLoader(t *testing.T) {
	svc := DocsService{
		Loader: func(id int64) (bookingDocData, error) {
			if id != 9 {
				t.Fatalf("loader got id %d, want 9", id)
			}
			return docFixture(), nil
		},
	}

	data, filename, err := svc.GenerateReceipt(9)
	if err != nil {
		t.Fatalf("generate receipt error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("receipt output is not a PDF")
	}
	if filename != "RECEIPT_OR-DOC9XYZ.pdf" {
		t.Fatalf("filename = %s", filename)
	}
}

func TestGenerateInvoiceUsesInjectedLoader(t *testing.T) {
	svc := DocsService{
		Loader: func(int64) (bookingDocData, error) { return docFixture(), nil },
	}

	data, filename, err := svc.GenerateInvoice(9)
	if err != nil {
		t.Fatalf("generate invoice error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("invoice output is not a PDF")
	}
	if filename != "INVOICE_OR-DOC9XYZ.pdf" {
		t.Fatalf("filename = %s", filename)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	cases := map[string]string{
		"":             "NA",
		"OR-1234":      "OR-1234",
		"a b/c:d":      "a_b_c_d",
		"  spaced  ":   "spaced",
	}
	for in, want := range cases {
		if got := safeFilenamePart(in); got != want {
			t.Errorf("safeFilenamePart(%q) = %q, want %q", in, got, want)
		}
	}
}
