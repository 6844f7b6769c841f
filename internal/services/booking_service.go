package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
	"onnrides/internal/utils"
)

// BookingService creates bookings and drives their lifecycle. Totals always
// come from the engine; this service never does money arithmetic itself.
type BookingService struct {
	BookingRepo    repositories.BookingRepository
	VehicleRepo    repositories.VehicleRepository
	CollectionRepo repositories.CollectionRepository
	Collections    CollectionService
	RequestID      string
}

type CreateBookingInput struct {
	CustomerName  string
	CustomerPhone string
	VehicleID     int64
	BookingType   payment.BookingType
	PickupDate    string
	DropoffDate   string

	// Money collected at creation time: the counter amount for offline
	// bookings, or the gateway-confirmed advance for online ones.
	InitialCollection payment.Paise
	InitialMethod     payment.Method
	CollectedBy       string
}

// Quote is what the booking will cost before anything is persisted.
type Quote struct {
	VehicleID       int64
	BookingType     payment.BookingType
	Days            int
	RentalAmount    payment.Paise
	SecurityDeposit payment.Paise
	TotalAmount     payment.Paise

	// Online policy split; zero for offline bookings.
	AdvanceAmount   payment.Paise
	RemainingAmount payment.Paise
}

// CreateResult carries the stored booking plus creation-time outcome flags.
type CreateResult struct {
	Booking  models.Booking
	Quote    Quote
	Overpaid bool
}

// BuildQuote prices a vehicle for the requested dates under the booking
// type's collection policy.
func (s BookingService) BuildQuote(vehicleID int64, bt payment.BookingType, pickupDate, dropoffDate string) (Quote, error) {
	if bt != payment.BookingOnline && bt != payment.BookingOffline {
		return Quote{}, domain.ValidationError{Field: "booking_type", Msg: "must be online or offline"}
	}

	vehicle, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return Quote{}, err
	}
	if !vehicle.Available {
		return Quote{}, domain.ConflictError{Resource: "vehicle", Msg: "vehicle is not available"}
	}

	days, err := rentalDays(pickupDate, dropoffDate)
	if err != nil {
		return Quote{}, err
	}

	rental := vehicle.PricePerDay * payment.Paise(days)
	deposit := payment.Paise(0)
	if bt == payment.BookingOffline {
		deposit = vehicle.SecurityDeposit
	}

	total, err := payment.ComputeTotals(rental, deposit, bt)
	if err != nil {
		return Quote{}, mapEngineError(err)
	}

	q := Quote{
		VehicleID:       vehicleID,
		BookingType:     bt,
		Days:            days,
		RentalAmount:    rental,
		SecurityDeposit: deposit,
		TotalAmount:     total,
	}
	if bt == payment.BookingOnline {
		advance, remaining, err := payment.SplitAdvance(total)
		if err != nil {
			return Quote{}, mapEngineError(err)
		}
		q.AdvanceAmount = advance
		q.RemainingAmount = remaining
	}
	return q, nil
}

// Create persists a booking with engine-computed totals, then records the
// initial collection (if any) through the normal collection path so the audit
// trail starts at event one.
func (s BookingService) Create(in CreateBookingInput) (CreateResult, error) {
	name := utils.NormalizeSpace(in.CustomerName)
	phone := utils.NormalizePhone(in.CustomerPhone)
	if name == "" {
		return CreateResult{}, domain.ValidationError{Field: "customer_name", Msg: "required"}
	}
	if phone == "" {
		return CreateResult{}, domain.ValidationError{Field: "customer_phone", Msg: "required"}
	}

	quote, err := s.BuildQuote(in.VehicleID, in.BookingType, in.PickupDate, in.DropoffDate)
	if err != nil {
		return CreateResult{}, err
	}

	derived, err := payment.Reconcile(quote.TotalAmount, 0)
	if err != nil {
		return CreateResult{}, mapEngineError(err)
	}

	booking := models.Booking{
		BookingRef:      newBookingRef(),
		CustomerName:    name,
		CustomerPhone:   phone,
		VehicleID:       in.VehicleID,
		BookingType:     in.BookingType,
		Status:          payment.StateConfirmed,
		PickupDate:      strings.TrimSpace(in.PickupDate),
		DropoffDate:     strings.TrimSpace(in.DropoffDate),
		RentalAmount:    quote.RentalAmount,
		SecurityDeposit: quote.SecurityDeposit,
		TotalAmount:     quote.TotalAmount,
		PaidAmount:      0,
		PendingAmount:   derived.PendingAmount,
		PaymentStatus:   derived.Status,
		CreatedAt:       time.Now(),
	}

	id, err := s.BookingRepo.Create(booking)
	if err != nil {
		return CreateResult{}, err
	}
	booking.ID = id

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d ref=%s type=%s total=%s", id, booking.BookingRef, booking.BookingType, booking.TotalAmount))

	out := CreateResult{Booking: booking, Quote: quote}
	if in.InitialCollection > 0 {
		res, err := s.collections().Collect(CollectInput{
			BookingID:   id,
			Amount:      in.InitialCollection,
			Method:      in.InitialMethod,
			CollectedBy: in.CollectedBy,
			Notes:       "collected at booking time",
		})
		if err != nil {
			return CreateResult{}, err
		}
		out.Booking = res.Booking
		out.Overpaid = res.Overpaid
	}
	return out, nil
}

// Detail returns a booking with its collection trail.
func (s BookingService) Detail(id int64) (models.Booking, []models.CollectionEvent, error) {
	booking, err := s.BookingRepo.GetByID(id)
	if err != nil {
		return models.Booking{}, nil, err
	}
	events, err := s.CollectionRepo.ListByBookingID(nil, id)
	if err != nil {
		return models.Booking{}, nil, err
	}
	return booking, events, nil
}

// Cancel moves the booking into its terminal cancelled state. Collections are
// rejected by the engine from here on.
func (s BookingService) Cancel(id int64) error {
	if err := s.BookingRepo.UpdateStatus(id, payment.StateCancelled); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d", id))
	return nil
}

// Complete closes the booking after the trip. The vehicle is only released
// when nothing is pending; a booking that still owes money stays open.
func (s BookingService) Complete(id int64) error {
	booking, err := s.BookingRepo.GetByID(id)
	if err != nil {
		return err
	}
	if booking.PendingAmount > 0 {
		return domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("pending amount %s must be collected before completion", utils.FormatINR(booking.PendingAmount)),
		}
	}
	if err := s.BookingRepo.UpdateStatus(id, payment.StateCompleted); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "complete", fmt.Sprintf("booking_id=%d", id))
	return nil
}

func (s BookingService) collections() CollectionService {
	c := s.Collections
	if c.DB == nil && s.BookingRepo.DB != nil {
		c.DB = s.BookingRepo.DB
	}
	if c.BookingRepo.DB == nil {
		c.BookingRepo = s.BookingRepo
	}
	if c.CollectionRepo.DB == nil {
		c.CollectionRepo = s.CollectionRepo
	}
	c.RequestID = s.RequestID
	return c
}

func newBookingRef() string {
	return "OR-" + strings.ToUpper(uuid.NewString()[:8])
}

// rentalDays charges whole days, rounding any partial day up. A missing
// dropoff means a single-day rental.
func rentalDays(pickupDate, dropoffDate string) (int, error) {
	pickup, err := utils.ParseDate(pickupDate)
	if err != nil {
		return 0, domain.ValidationError{Field: "pickup_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if strings.TrimSpace(dropoffDate) == "" {
		return 1, nil
	}
	dropoff, err := utils.ParseDate(dropoffDate)
	if err != nil {
		return 0, domain.ValidationError{Field: "dropoff_date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if dropoff.Before(pickup) {
		return 0, domain.ValidationError{Field: "dropoff_date", Msg: "dropoff before pickup"}
	}
	days := int(dropoff.Sub(pickup).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days, nil
}
