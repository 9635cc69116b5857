package services

import (
	"time"

	"kosmart/internal/models"
)

// IsOverdue derives the overdue flag for a tenancy from its latest payment.
// lastPayment may be nil when the tenancy has no payment history. The caller
// supplies now; the function never reads the wall clock.
//
// Rules:
//   - a tenancy that is not active is never overdue
//   - with no payments, the tenancy is overdue once its start date has passed
//   - otherwise rent falls due one calendar month after the latest payment
func IsOverdue(tenancy *models.Tenancy, lastPayment *models.Payment, now time.Time) bool {
	if tenancy.Status != models.TenancyStatusActive {
		return false
	}
	if lastPayment == nil {
		return tenancy.StartDate.Before(now)
	}
	return NextDueDate(lastPayment.PaymentDate).Before(now)
}

// NextDueDate returns paymentDate plus one calendar month. When the source
// day does not exist in the target month the result clamps to that month's
// last day (Jan 31 -> Feb 28, or Feb 29 in a leap year). Clamping is the
// documented policy here, chosen over time.AddDate's overflow behavior which
// would roll Jan 31 into early March.
func NextDueDate(paymentDate time.Time) time.Time {
	year, month, day := paymentDate.Date()
	lastDay := time.Date(year, month+2, 0, 0, 0, 0, 0, paymentDate.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, min, sec := paymentDate.Clock()
	return time.Date(year, month+1, day, hour, min, sec, paymentDate.Nanosecond(), paymentDate.Location())
}
