package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"onnrides/internal/payment"
	"onnrides/internal/repositories"
	"onnrides/internal/utils"
)

// DocsService renders booking receipts and invoices as PDFs.
type DocsService struct {
	BookingRepo    repositories.BookingRepository
	CollectionRepo repositories.CollectionRepository
	VehicleRepo    repositories.VehicleRepository
	RequestID      string
	Loader         func(int64) (bookingDocData, error)
}

type bookingDocData struct {
	BookingID       int64
	BookingRef      string
	CustomerName    string
	CustomerPhone   string
	VehicleName     string
	PlateNumber     string
	BookingType     payment.BookingType
	PickupDate      string
	DropoffDate     string
	RentalAmount    payment.Paise
	SecurityDeposit payment.Paise
	TotalAmount     payment.Paise
	PaidAmount      payment.Paise
	PendingAmount   payment.Paise
	PaymentStatus   payment.PaymentStatus
	Collections     []docCollection
}

type docCollection struct {
	Amount      payment.Paise
	Method      payment.Method
	CollectedBy string
	At          time.Time
}

func (s DocsService) GenerateReceipt(bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(data)
}

func (s DocsService) GenerateInvoice(bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(data)
}

func (s DocsService) loadBookingDocData(bookingID int64) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}

	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return bookingDocData{}, err
	}
	out := bookingDocData{
		BookingID:       b.ID,
		BookingRef:      b.BookingRef,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		BookingType:     b.BookingType,
		PickupDate:      b.PickupDate,
		DropoffDate:     b.DropoffDate,
		RentalAmount:    b.RentalAmount,
		SecurityDeposit: b.SecurityDeposit,
		TotalAmount:     b.TotalAmount,
		PaidAmount:      b.PaidAmount,
		PendingAmount:   b.PendingAmount,
		PaymentStatus:   b.PaymentStatus,
	}

	if v, err := s.VehicleRepo.GetByID(b.VehicleID); err == nil {
		out.VehicleName = v.Name
		out.PlateNumber = v.PlateNumber
	}
	if events, err := s.CollectionRepo.ListByBookingID(nil, bookingID); err == nil {
		for _, ev := range events {
			out.Collections = append(out.Collections, docCollection{
				Amount:      ev.Amount,
				Method:      ev.Method,
				CollectedBy: ev.CollectedBy,
				At:          ev.CreatedAt,
			})
		}
	}
	return out, nil
}

func buildReceiptPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ONNRIDES PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref    : %s", safe(d.BookingRef, "-")),
		fmt.Sprintf("Customer       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(d.CustomerPhone, "-")),
		fmt.Sprintf("Vehicle        : %s (%s)", safe(d.VehicleName, "-"), safe(d.PlateNumber, "-")),
		fmt.Sprintf("Booking Type   : %s", d.BookingType),
		fmt.Sprintf("Pickup         : %s", safe(d.PickupDate, "-")),
		fmt.Sprintf("Dropoff        : %s", safe(d.DropoffDate, "-")),
		fmt.Sprintf("Rental         : %s", utils.FormatINR(d.RentalAmount)),
	}
	if d.SecurityDeposit > 0 {
		lines = append(lines, fmt.Sprintf("Deposit        : %s (refundable)", utils.FormatINR(d.SecurityDeposit)))
	}
	lines = append(lines,
		fmt.Sprintf("Total          : %s", utils.FormatINR(d.TotalAmount)),
		fmt.Sprintf("Paid           : %s", utils.FormatINR(d.PaidAmount)),
		fmt.Sprintf("Pending        : %s", utils.FormatINR(d.PendingAmount)),
		fmt.Sprintf("Payment Status : %s", d.PaymentStatus),
	)
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(d.Collections) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Collections:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, ev := range d.Collections {
			pdf.Cell(0, 6, fmt.Sprintf("%d) %s via %s on %s (%s)",
				i+1, utils.FormatINR(ev.Amount), ev.Method,
				utils.FormatDateTime(ev.At), safe(ev.CollectedBy, "-")))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Security deposit, when charged, is refunded at vehicle return after inspection.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(d.BookingRef))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : INV-"+safeFilenamePart(d.BookingRef))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+utils.FormatDateTime(time.Now()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(d.CustomerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone : %s", safe(d.CustomerPhone, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("Vehicle rental %s (%s), %s to %s",
		safe(d.VehicleName, "-"), safe(d.PlateNumber, "-"),
		safe(d.PickupDate, "-"), safe(d.DropoffDate, d.PickupDate))
	pdf.MultiCell(0, 6, "1) "+desc+": "+utils.FormatINR(d.RentalAmount), "", "", false)
	if d.SecurityDeposit > 0 {
		pdf.MultiCell(0, 6, "2) Refundable security deposit: "+utils.FormatINR(d.SecurityDeposit), "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatINR(d.TotalAmount))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Paid: "+utils.FormatINR(d.PaidAmount)+"   Pending: "+utils.FormatINR(d.PendingAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Amounts are in Indian Rupees.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(d.BookingRef))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
