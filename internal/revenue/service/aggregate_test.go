package service_test

import (
	"testing"
	"time"

	gatewaydomain "github.com/gatherhq/gatherpay/internal/gateway/domain"
	revenueservice "github.com/gatherhq/gatherpay/internal/revenue/service"
	"github.com/stretchr/testify/assert"
)

var aggregateNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestAggregateExcludesNonSucceeded(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: 1000, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
		{ID: "ch_2", Amount: 500, Status: "failed", Currency: "USD", CreatedAt: aggregateNow},
	}

	analytics := revenueservice.Aggregate(payments, aggregateNow, 0)

	assert.Equal(t, int64(1000), analytics.AllTime.Revenue)
	assert.Equal(t, int64(1), analytics.AllTime.TicketsSold)
	assert.Equal(t, int64(1000), analytics.CurrentMonth.Revenue)
}

func TestAggregateIsPure(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: 1000, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
		{ID: "ch_2", Amount: 700, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow.AddDate(0, -1, 0)},
	}

	first := revenueservice.Aggregate(payments, aggregateNow, 2.9)
	second := revenueservice.Aggregate(payments, aggregateNow, 2.9)

	assert.Equal(t, first, second)
}

func TestAggregateEmptyInput(t *testing.T) {
	analytics := revenueservice.Aggregate(nil, aggregateNow, 2.9)

	assert.Zero(t, analytics.AllTime)
	assert.Zero(t, analytics.CurrentMonth)
	assert.Zero(t, analytics.PreviousMonth)
	assert.Empty(t, analytics.Currency)
}

func TestAggregateMonthBuckets(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: 1000, Status: "succeeded", Currency: "USD", CreatedAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "ch_2", Amount: 2000, Status: "succeeded", Currency: "USD", CreatedAt: time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC)},
		{ID: "ch_3", Amount: 4000, Status: "succeeded", Currency: "USD", CreatedAt: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)},
	}

	analytics := revenueservice.Aggregate(payments, aggregateNow, 0)

	assert.Equal(t, int64(7000), analytics.AllTime.Revenue)
	assert.Equal(t, int64(3), analytics.AllTime.TicketsSold)
	assert.Equal(t, int64(1000), analytics.CurrentMonth.Revenue)
	assert.Equal(t, int64(2000), analytics.PreviousMonth.Revenue)
}

func TestAggregatePlatformFeeRoundsHalfUp(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: 1050, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
	}

	// 1050 * 2.9% = 30.45 -> 30; 1050 * 5% = 52.5 -> 53.
	analytics := revenueservice.Aggregate(payments, aggregateNow, 2.9)
	assert.Equal(t, int64(30), analytics.AllTime.PlatformFees)

	analytics = revenueservice.Aggregate(payments, aggregateNow, 5)
	assert.Equal(t, int64(53), analytics.AllTime.PlatformFees)
}

func TestAggregateCurrencyFromFirstCharge(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: 100, Status: "failed", Currency: "EUR", CreatedAt: aggregateNow},
		{ID: "ch_2", Amount: 200, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
	}

	analytics := revenueservice.Aggregate(payments, aggregateNow, 0)
	assert.Equal(t, "EUR", analytics.Currency)
}

func TestAggregateToleratesMalformedAmounts(t *testing.T) {
	payments := []gatewaydomain.Charge{
		{ID: "ch_1", Amount: -500, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
		{ID: "ch_2", Amount: 1000, Status: "succeeded", Currency: "USD", CreatedAt: aggregateNow},
	}

	analytics := revenueservice.Aggregate(payments, aggregateNow, 0)
	assert.Equal(t, int64(1000), analytics.AllTime.Revenue)
	assert.Equal(t, int64(2), analytics.AllTime.TicketsSold)
}
