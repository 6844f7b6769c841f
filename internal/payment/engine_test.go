package payment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rupees(v int64) Paise { return Paise(v * PaisePerRupee) }

func TestComputeTotals(t *testing.T) {
	total, err := ComputeTotals(rupees(800), rupees(2000), BookingOffline)
	assert.NoError(t, err)
	assert.Equal(t, rupees(2800), total)

	total, err = ComputeTotals(rupees(850), 0, BookingOnline)
	assert.NoError(t, err)
	assert.Equal(t, rupees(850), total)

	_, err = ComputeTotals(rupees(-1), 0, BookingOffline)
	assert.True(t, IsInvalidAmount(err))

	_, err = ComputeTotals(rupees(800), rupees(-5), BookingOffline)
	assert.True(t, IsInvalidAmount(err))

	// online bookings have no deposit concept
	_, err = ComputeTotals(rupees(800), rupees(100), BookingOnline)
	assert.True(t, IsInvalidAmount(err))
}

func TestReconcile(t *testing.T) {
	cases := []struct {
		name    string
		total   Paise
		paid    Paise
		pending Paise
		status  PaymentStatus
	}{
		{"fully paid offline", rupees(2800), rupees(2800), 0, StatusPaid},
		{"partial", rupees(2800), rupees(1000), rupees(1800), StatusPartiallyPaid},
		{"nothing collected", rupees(2800), 0, rupees(2800), StatusPending},
		{"overpaid clamps pending", rupees(300), rupees(500), 0, StatusPaid},
		{"exact equality is paid, not partial", rupees(1), rupees(1), 0, StatusPaid},
		{"one paisa short stays partial", rupees(100), rupees(100) - 1, 1, StatusPartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Reconcile(tc.total, tc.paid)
			assert.NoError(t, err)
			assert.Equal(t, tc.pending, d.PendingAmount)
			assert.Equal(t, tc.status, d.Status)

			// pure function: same inputs, same outputs
			again, err := Reconcile(tc.total, tc.paid)
			assert.NoError(t, err)
			assert.Equal(t, d, again)
		})
	}

	_, err := Reconcile(rupees(-1), 0)
	assert.True(t, IsInvalidAmount(err))
	_, err = Reconcile(rupees(100), rupees(-1))
	assert.True(t, IsInvalidAmount(err))
}

func TestDeriveChecksTotals(t *testing.T) {
	f := Financials{
		BookingType:     BookingOffline,
		State:           StateConfirmed,
		RentalAmount:    rupees(800),
		SecurityDeposit: rupees(2000),
		TotalAmount:     rupees(2700), // stale
	}
	_, err := Derive(f)
	assert.True(t, IsInconsistentTotals(err))

	f.TotalAmount = rupees(2800)
	d, err := Derive(f)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, rupees(2800), d.PendingAmount)
}

func offlineBooking(paid Paise) Financials {
	f := Financials{
		BookingType:     BookingOffline,
		State:           StateConfirmed,
		RentalAmount:    rupees(800),
		SecurityDeposit: rupees(2000),
		TotalAmount:     rupees(2800),
	}
	if paid > 0 {
		f.Events = append(f.Events, CollectionEvent{Amount: paid, Method: MethodCash, At: time.Now()})
	}
	return f
}

func TestApplyCollectionEvent(t *testing.T) {
	now := time.Now()

	t.Run("partial then full", func(t *testing.T) {
		res, err := ApplyCollectionEvent(offlineBooking(0), rupees(1000), MethodUPI, "staff-1", now)
		assert.NoError(t, err)
		assert.Equal(t, rupees(1000), res.PaidAmount)
		assert.Equal(t, rupees(1800), res.PendingAmount)
		assert.Equal(t, StatusPartiallyPaid, res.Status)
		assert.False(t, res.Overpaid)
		assert.False(t, res.FullyCollected)

		res, err = ApplyCollectionEvent(res.Financials, rupees(1800), MethodCash, "staff-1", now)
		assert.NoError(t, err)
		assert.Equal(t, rupees(2800), res.PaidAmount)
		assert.Equal(t, Paise(0), res.PendingAmount)
		assert.Equal(t, StatusPaid, res.Status)
		assert.True(t, res.FullyCollected)
		assert.Len(t, res.Financials.Events, 2)
	})

	t.Run("overpayment flagged, not clamped", func(t *testing.T) {
		f := offlineBooking(rupees(2500)) // pending 300
		res, err := ApplyCollectionEvent(f, rupees(500), MethodCash, "staff-2", now)
		assert.NoError(t, err)
		assert.True(t, res.Overpaid)
		assert.True(t, res.FullyCollected)
		assert.Equal(t, rupees(3000), res.PaidAmount) // full 500 recorded
		assert.Equal(t, Paise(0), res.PendingAmount)
		assert.Equal(t, StatusPaid, res.Status)
	})

	t.Run("fully collected fires once", func(t *testing.T) {
		f := offlineBooking(rupees(2800))
		res, err := ApplyCollectionEvent(f, rupees(100), MethodCash, "staff-2", now)
		assert.NoError(t, err)
		assert.True(t, res.Overpaid)
		assert.False(t, res.FullyCollected) // already paid before this event
	})

	t.Run("terminal states reject and stay untouched", func(t *testing.T) {
		for _, state := range []BookingState{StateCancelled, StateCompleted} {
			f := offlineBooking(rupees(1000))
			f.State = state
			res, err := ApplyCollectionEvent(f, rupees(100), MethodCash, "staff-1", now)
			assert.True(t, IsBookingClosed(err))
			assert.Equal(t, f, res.Financials)
			assert.Len(t, res.Financials.Events, 1)
		}
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		for _, amount := range []Paise{0, rupees(-10)} {
			_, err := ApplyCollectionEvent(offlineBooking(0), amount, MethodCash, "staff-1", now)
			assert.True(t, IsInvalidAmount(err))
		}
	})

	t.Run("stale total rejected before any mutation", func(t *testing.T) {
		f := offlineBooking(0)
		f.TotalAmount = rupees(9999)
		res, err := ApplyCollectionEvent(f, rupees(100), MethodCash, "staff-1", now)
		assert.True(t, IsInconsistentTotals(err))
		assert.Empty(t, res.Financials.Events)
	})
}

func TestSplitAdvance(t *testing.T) {
	cases := []struct {
		total   Paise
		advance Paise
	}{
		{rupees(850), rupees(43)}, // 42.50 rounds up
		{rupees(1), 0},            // 0.05 rounds down
		{rupees(1000), rupees(50)},
		{rupees(849), rupees(42)}, // 42.45 rounds down
		{0, 0},
	}
	for _, tc := range cases {
		advance, remaining, err := SplitAdvance(tc.total)
		assert.NoError(t, err)
		assert.Equal(t, tc.advance, advance)
		assert.Equal(t, tc.total, advance+remaining, "advance+remaining must equal total for %s", tc.total)
	}

	_, _, err := SplitAdvance(rupees(-1))
	assert.True(t, IsInvalidAmount(err))
}

func TestSplitAdvanceSumInvariantSweep(t *testing.T) {
	// whole-rupee totals from 0 to 10,000
	for r := int64(0); r <= 10_000; r++ {
		total := rupees(r)
		advance, remaining, err := SplitAdvance(total)
		if err != nil {
			t.Fatalf("total %d: %v", r, err)
		}
		if advance+remaining != total {
			t.Fatalf("total %d: advance %d + remaining %d != total", r, advance, remaining)
		}
		if advance%PaisePerRupee != 0 {
			t.Fatalf("total %d: advance %d not a whole rupee", r, advance)
		}
	}
}

func TestFromRupees(t *testing.T) {
	p, err := FromRupees(850)
	assert.NoError(t, err)
	assert.Equal(t, rupees(850), p)

	p, err = FromRupees(99.99)
	assert.NoError(t, err)
	assert.Equal(t, Paise(9999), p)

	// float noise must not shift the paisa value
	p, err = FromRupees(0.1 + 0.2)
	assert.NoError(t, err)
	assert.Equal(t, Paise(30), p)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := FromRupees(bad)
		assert.True(t, IsInvalidAmount(err))
	}
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod(" UPI ")
	assert.True(t, ok)
	assert.Equal(t, MethodUPI, m)

	_, ok = ParseMethod("cheque")
	assert.False(t, ok)
}
