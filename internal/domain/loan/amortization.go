package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DueDay is the calendar day of the month every EMI falls due on.
const DueDay = 5

// MonthlyInstallment computes the fixed EMI for an annual percentage rate:
//
//	r   = annualRate / 12 / 100
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded to 2 decimal places, half away from zero.
func MonthlyInstallment(principal, annualRate decimal.Decimal, tenure int) decimal.Decimal {
	p := principal.InexactFloat64()
	r := annualRate.InexactFloat64() / 12 / 100
	factor := math.Pow(1+r, float64(tenure))
	emi := p * r * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(2)
}

// GenerateSchedule turns (principal, annual rate, tenure) into tenure pending
// installments of identical amount. Installment i is due on the 5th of the
// month i months after now's month. Nothing is persisted and no identifiers
// are assigned, so identical inputs give identical output.
func GenerateSchedule(principal, annualRate decimal.Decimal, tenure int, now time.Time) ([]Installment, error) {
	if !principal.IsPositive() || !annualRate.IsPositive() || tenure < 1 {
		return nil, ErrInvalidScheduleInput
	}

	emi := MonthlyInstallment(principal, annualRate, tenure)
	out := make([]Installment, 0, tenure)
	for i := 1; i <= tenure; i++ {
		out = append(out, Installment{
			Seq:     i,
			Amount:  emi,
			DueDate: time.Date(now.Year(), now.Month()+time.Month(i), DueDay, 0, 0, 0, 0, time.UTC),
			Status:  InstallmentPending,
		})
	}
	return out, nil
}

// DateOnly drops the time of day, keeping t's calendar date as UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
