package service

import (
	"math"
	"time"

	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gatherhq/gatherpay/internal/revenue/domain"
)

// Aggregate buckets charges into all-time, the calendar month containing
// now, and the month immediately before it. Only succeeded charges count
// toward revenue and ticket counts. The function is pure and total:
// malformed records contribute zero instead of aborting the rollup.
func Aggregate(payments []gatewaydomain.Charge, now time.Time, feePercent float64) domain.Analytics {
	analytics := domain.Analytics{}

	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentEnd := currentStart.AddDate(0, 1, 0)
	previousStart := currentStart.AddDate(0, -1, 0)

	for _, payment := range payments {
		if analytics.Currency == "" && payment.Currency != "" {
			analytics.Currency = payment.Currency
		}
		if payment.Status != gatewaydomain.ChargeStatusSucceeded {
			continue
		}

		amount := payment.Amount
		if amount < 0 {
			amount = 0
		}

		addToBucket(&analytics.AllTime, amount)
		created := payment.CreatedAt.UTC()
		switch {
		case !created.Before(currentStart) && created.Before(currentEnd):
			addToBucket(&analytics.CurrentMonth, amount)
		case !created.Before(previousStart) && created.Before(currentStart):
			addToBucket(&analytics.PreviousMonth, amount)
		}
	}

	analytics.AllTime.PlatformFees = platformFee(analytics.AllTime.Revenue, feePercent)
	analytics.CurrentMonth.PlatformFees = platformFee(analytics.CurrentMonth.Revenue, feePercent)
	analytics.PreviousMonth.PlatformFees = platformFee(analytics.PreviousMonth.Revenue, feePercent)

	return analytics
}

func addToBucket(bucket *domain.Bucket, amount int64) {
	bucket.Revenue += amount
	bucket.TicketsSold++
}

// platformFee rounds half up on the summed revenue rather than per charge
// so the fee matches what a single statement line would show.
func platformFee(revenue int64, feePercent float64) int64 {
	if revenue <= 0 || feePercent <= 0 {
		return 0
	}
	return int64(math.Round(float64(revenue) * feePercent / 100))
}
