package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/http/middleware"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
	"onnrides/internal/services"
)

func bookingService(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		BookingRepo:    repositories.BookingRepository{},
		VehicleRepo:    repositories.VehicleRepository{},
		CollectionRepo: repositories.CollectionRepository{},
		Collections: services.CollectionService{
			BookingRepo:    repositories.BookingRepository{},
			CollectionRepo: repositories.CollectionRepository{},
			Notifier:       messageSender(),
			RequestID:      reqID,
		},
		RequestID: reqID,
	}
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_booking_id", "invalid booking id", nil)
		return 0, false
	}
	return id, true
}

func bookingJSON(b models.Booking) gin.H {
	out := gin.H{
		"id":               b.ID,
		"booking_ref":      b.BookingRef,
		"customer_name":    b.CustomerName,
		"customer_phone":   b.CustomerPhone,
		"vehicle_id":       b.VehicleID,
		"booking_type":     b.BookingType,
		"status":           b.Status,
		"pickup_date":      b.PickupDate,
		"dropoff_date":     b.DropoffDate,
		"rental_amount":    b.RentalAmount.Rupees(),
		"security_deposit": b.SecurityDeposit.Rupees(),
		"total_amount":     b.TotalAmount.Rupees(),
		"paid_amount":      b.PaidAmount.Rupees(),
		"pending_amount":   b.PendingAmount.Rupees(),
		"payment_status":   b.PaymentStatus,
		"payment_method":   b.PaymentMethod,
		"created_at":       b.CreatedAt,
	}
	if b.LastRemindedAt != nil {
		out["last_reminded_at"] = b.LastRemindedAt
	}
	return out
}

func eventJSON(ev models.CollectionEvent) gin.H {
	return gin.H{
		"id":           ev.ID,
		"amount":       ev.Amount.Rupees(),
		"method":       ev.Method,
		"collected_by": ev.CollectedBy,
		"notes":        ev.Notes,
		"created_at":   ev.CreatedAt,
	}
}

type quoteRequest struct {
	VehicleID   int64  `json:"vehicle_id" validate:"required,gt=0"`
	BookingType string `json:"booking_type" validate:"required,oneof=online offline"`
	PickupDate  string `json:"pickup_date" validate:"required"`
	DropoffDate string `json:"dropoff_date"`
}

// POST /api/bookings/quote
func QuoteBooking(c *gin.Context) {
	var req quoteRequest
	if !BindAndValidate(c, &req) {
		return
	}

	quote, err := bookingService(c).BuildQuote(req.VehicleID, payment.BookingType(req.BookingType), req.PickupDate, req.DropoffDate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteJSON(quote))
}

func quoteJSON(q services.Quote) gin.H {
	out := gin.H{
		"vehicle_id":       q.VehicleID,
		"booking_type":     q.BookingType,
		"days":             q.Days,
		"rental_amount":    q.RentalAmount.Rupees(),
		"security_deposit": q.SecurityDeposit.Rupees(),
		"total_amount":     q.TotalAmount.Rupees(),
	}
	if q.BookingType == payment.BookingOnline {
		out["advance_amount"] = q.AdvanceAmount.Rupees()
		out["remaining_amount"] = q.RemainingAmount.Rupees()
	}
	return out
}

type createBookingRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerPhone string  `json:"customer_phone" validate:"required"`
	VehicleID     int64   `json:"vehicle_id" validate:"required,gt=0"`
	BookingType   string  `json:"booking_type" validate:"required,oneof=online offline"`
	PickupDate    string  `json:"pickup_date" validate:"required"`
	DropoffDate   string  `json:"dropoff_date"`
	PaidAmount    float64 `json:"paid_amount" validate:"gte=0"`
	PaymentMethod string  `json:"payment_method"`
	CollectedBy   string  `json:"collected_by"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindAndValidate(c, &req) {
		return
	}

	in := services.CreateBookingInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		VehicleID:     req.VehicleID,
		BookingType:   payment.BookingType(req.BookingType),
		PickupDate:    req.PickupDate,
		DropoffDate:   req.DropoffDate,
		CollectedBy:   req.CollectedBy,
	}
	if req.PaidAmount > 0 {
		amount, err := payment.FromRupees(req.PaidAmount)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		method, ok := payment.ParseMethod(req.PaymentMethod)
		if !ok {
			respondError(c, http.StatusBadRequest, "validation_error", "payment_method must be cash, upi, card or bank_transfer", nil)
			return
		}
		in.InitialCollection = amount
		in.InitialMethod = method
	}

	res, err := bookingService(c).Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":  bookingJSON(res.Booking),
		"quote":    quoteJSON(res.Quote),
		"overpaid": res.Overpaid,
	})
}

// GET /api/bookings?status=&payment_status=&q=&page=&limit=
func GetBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	repo := repositories.BookingRepository{}
	bookings, err := repo.List(c.Query("status"), c.Query("payment_status"), c.Query("q"), page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingJSON(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out, "page": page, "limit": limit})
}

// GET /api/bookings/:id
func GetBookingDetail(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, events, err := bookingService(c).Detail(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	evs := make([]gin.H, 0, len(events))
	for _, ev := range events {
		evs = append(evs, eventJSON(ev))
	}
	c.JSON(http.StatusOK, gin.H{"booking": bookingJSON(booking), "collections": evs})
}

type collectRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Notes         string  `json:"notes"`
}

// POST /api/bookings/:id/collect
func CollectPayment(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var req collectRequest
	if !BindAndValidate(c, &req) {
		return
	}

	amount, err := payment.FromRupees(req.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	method, ok := payment.ParseMethod(req.PaymentMethod)
	if !ok {
		respondError(c, http.StatusBadRequest, "validation_error", "payment_method must be cash, upi, card or bank_transfer", nil)
		return
	}

	auth := middleware.GetAuth(c)
	svc := services.CollectionService{
		BookingRepo:    repositories.BookingRepository{},
		CollectionRepo: repositories.CollectionRepository{},
		Notifier:       messageSender(),
		RequestID:      middleware.GetRequestID(c),
	}
	res, err := svc.Collect(services.CollectInput{
		BookingID:   id,
		Amount:      amount,
		Method:      method,
		CollectedBy: strconv.FormatInt(int64(auth.UserID), 10),
		Notes:       req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":         bookingJSON(res.Booking),
		"event_id":        res.EventID,
		"overpaid":        res.Overpaid,
		"fully_collected": res.FullyCollected,
	})
}

// POST /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := bookingService(c).Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "booking_id": id, "status": payment.StateCancelled})
}

// POST /api/bookings/:id/complete
func CompleteBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := bookingService(c).Complete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "booking_id": id, "status": payment.StateCompleted})
}

// GET /api/bookings/:id/receipt
func GetBookingReceipt(c *gin.Context) {
	serveBookingPDF(c, func(svc services.DocsService, id int64) ([]byte, string, error) {
		return svc.GenerateReceipt(id)
	})
}

// GET /api/bookings/:id/invoice
func GetBookingInvoice(c *gin.Context) {
	serveBookingPDF(c, func(svc services.DocsService, id int64) ([]byte, string, error) {
		return svc.GenerateInvoice(id)
	})
}

func serveBookingPDF(c *gin.Context, generate func(services.DocsService, int64) ([]byte, string, error)) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	svc := services.DocsService{
		BookingRepo:    repositories.BookingRepository{},
		CollectionRepo: repositories.CollectionRepository{},
		VehicleRepo:    repositories.VehicleRepository{},
		RequestID:      middleware.GetRequestID(c),
	}
	data, filename, err := generate(svc, id)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			RespondDomainError(c, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to generate document", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
