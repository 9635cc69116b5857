package jobs

import (
	"context"
	"log"

	"kosmart/internal/models"
	"kosmart/internal/repositories"
	"kosmart/internal/services"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

const overdueScanPageSize = 500

// OverdueAlertService scans active tenancies and logs the ones whose rent is
// past due. Alerts are derived, never persisted.
type OverdueAlertService struct {
	tenancyRepo repositories.TenancyRepository
	paymentRepo repositories.PaymentRepository
	clock       clockwork.Clock
}

// OverdueAlert describes one tenancy whose rent is past due.
type OverdueAlert struct {
	TenancyID  uuid.UUID
	TenantName string
	Property   string
	RoomNumber *string
	RentPrice  decimal.Decimal
}

func NewOverdueAlertService(tenancyRepo repositories.TenancyRepository,
	paymentRepo repositories.PaymentRepository, clock clockwork.Clock) *OverdueAlertService {
	return &OverdueAlertService{
		tenancyRepo: tenancyRepo,
		paymentRepo: paymentRepo,
		clock:       clock,
	}
}

// CheckOverdue pages through active tenancies and collects those overdue at
// the time of the call. One clock reading covers the whole scan.
func (a *OverdueAlertService) CheckOverdue(ctx context.Context) ([]OverdueAlert, error) {
	now := a.clock.Now()
	status := models.TenancyStatusActive

	var alerts []OverdueAlert
	for offset := 0; ; offset += overdueScanPageSize {
		page, err := a.tenancyRepo.Search(ctx, &models.TenancySearchFilter{
			Status: &status,
			Limit:  overdueScanPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}

		for _, tenancy := range page {
			lastPayment, err := a.paymentRepo.LatestByTenancy(ctx, tenancy.ID)
			if err != nil {
				log.Printf("Failed to load latest payment for tenancy %s: %v", tenancy.ID, err)
				continue
			}
			if !services.IsOverdue(tenancy, lastPayment, now) {
				continue
			}

			alert := OverdueAlert{
				TenancyID:  tenancy.ID,
				RoomNumber: tenancy.RoomNumber,
				RentPrice:  tenancy.RentPrice,
			}
			if tenancy.Tenant != nil {
				alert.TenantName = tenancy.Tenant.FullName
			}
			if tenancy.Property != nil {
				alert.Property = tenancy.Property.Name
			}
			alerts = append(alerts, alert)
		}

		if len(page) < overdueScanPageSize {
			break
		}
	}
	return alerts, nil
}

// LogOverdueAlerts writes one line per overdue tenancy.
func (a *OverdueAlertService) LogOverdueAlerts(alerts []OverdueAlert) {
	if len(alerts) == 0 {
		log.Println("No overdue tenancies")
		return
	}

	log.Printf("%d tenancies overdue:", len(alerts))
	for _, alert := range alerts {
		room := ""
		if alert.RoomNumber != nil {
			room = " room " + *alert.RoomNumber
		}
		log.Printf("- Tenancy %s (%s, %s%s) rent %s past due",
			alert.TenancyID,
			alert.TenantName,
			alert.Property,
			room,
			alert.RentPrice.StringFixed(2))
	}
}

// ScheduledOverdueCheck is the entry point wired into the background scheduler.
func (a *OverdueAlertService) ScheduledOverdueCheck(ctx context.Context) error {
	log.Println("Starting scheduled overdue rent check")

	alerts, err := a.CheckOverdue(ctx)
	if err != nil {
		log.Printf("Scheduled overdue check failed: %v", err)
		return err
	}
	a.LogOverdueAlerts(alerts)

	log.Println("Scheduled overdue rent check completed")
	return nil
}
