package engine

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// TopServiceCount is the number of services kept in the ranking.
const TopServiceCount = 10

// accumulator is the explicit fold state of one aggregation pass.
type accumulator struct {
	totals       model.Totals
	serviceIndex map[string]int
	periodSeen   bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		totals:       model.Totals{DailyVariable: make(map[string]float64)},
		serviceIndex: make(map[string]int),
	}
}

func (a *accumulator) add(acc *cur.Accessor, cls *cur.Classifier, row model.BillingRow) {
	t := &a.totals
	line := acc.Line(row)
	flags := cls.Classify(line)

	t.RowCount++
	if !a.periodSeen {
		t.PeriodStart = acc.BillingPeriodStart(row)
		t.PeriodEnd = acc.BillingPeriodEnd(row)
		a.periodSeen = true
	}

	net := line.NetCost
	t.TotalBill += net

	if flags.FixedFee {
		t.FixedMonthly += net
	} else if day, ok := cur.DayKey(line.UsageStart); ok {
		t.DailyVariable[day] += net
	} else {
		t.UndatedRows++
	}

	if i, ok := a.serviceIndex[line.ServiceName]; ok {
		t.ServiceSpend[i].Cost += net
	} else {
		a.serviceIndex[line.ServiceName] = len(t.ServiceSpend)
		t.ServiceSpend = append(t.ServiceSpend, model.ServiceSpend{Name: line.ServiceName, Cost: net})
	}

	if flags.ComputeEligible {
		t.ComputeBaseline += line.PublicOnDemandCost
		t.ComputeActual += net
		if flags.CoveredUsage {
			t.CoveredBaseline += line.PublicOnDemandCost
		}
	}
	if flags.Spot {
		t.SpotNet += net
	}
	if flags.EC2BoxUsage {
		t.EC2BoxNet += net
		t.EC2BoxBaseline += line.PublicOnDemandCost
	}
	if flags.ECSFargatePool {
		t.ECSNet += net
		t.ECSBaseline += line.PublicOnDemandCost
	}
	if flags.FargateSpot {
		t.FargateSpotNet += net
	}
}

// Aggregate folds the rows into a fresh set of totals in a single pass.
func Aggregate(rows []model.BillingRow, acc *cur.Accessor, cls *cur.Classifier) model.Totals {
	a := newAccumulator()
	for _, row := range rows {
		a.add(acc, cls, row)
	}
	return a.totals
}

// Ratios derives the fractional metrics from the totals.
func Ratios(t model.Totals) model.Ratios {
	r := model.Ratios{
		ComputeShareTotal: safeDiv(t.ComputeActual, t.TotalBill),
		CurrentCoverage:   safeDiv(t.CoveredBaseline, t.ComputeBaseline),
		SpotShareTotal:    safeDiv(t.SpotNet, t.TotalBill),
		SpotShareCompute:  safeDiv(t.SpotNet, t.ComputeActual),
	}
	if t.ComputeBaseline != 0 {
		r.ObservedDiscount = 1 - t.ComputeActual/t.ComputeBaseline
	}
	return r
}

// Daily is the per-day variable and normalized spend series.
type Daily struct {
	Days        []string
	Variable    []float64
	Normalized  []float64
	FixedPerDay float64
}

// DailySeries spreads the fixed monthly charges evenly over the billing
// period. When the period bounds do not parse the observed days are used.
func DailySeries(t model.Totals) Daily {
	days := periodDays(t.PeriodStart, t.PeriodEnd)
	if days == nil {
		days = make([]string, 0, len(t.DailyVariable))
		for day := range t.DailyVariable {
			days = append(days, day)
		}
		sort.Strings(days)
	}

	d := Daily{
		Days:        days,
		Variable:    make([]float64, len(days)),
		Normalized:  make([]float64, len(days)),
		FixedPerDay: t.FixedMonthly / float64(max(1, len(days))),
	}
	for i, day := range days {
		v := t.DailyVariable[day]
		d.Variable[i] = v
		d.Normalized[i] = v + d.FixedPerDay
	}
	return d
}

func periodDays(start, end string) []string {
	from, ok := cur.ParseDay(start)
	if !ok {
		return nil
	}
	to, ok := cur.ParseDay(end)
	if !ok || to.Before(from) {
		return nil
	}

	var days []string
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(cur.DayLayout))
	}
	return days
}

// ChartCeiling returns the y-axis ceiling for the daily chart: 1.25 times the
// 95th percentile of both series, never below 1.
func ChartCeiling(d Daily) float64 {
	values := make([]float64, 0, len(d.Normalized)+len(d.Variable))
	values = append(values, d.Normalized...)
	values = append(values, d.Variable...)
	return math.Max(1, 1.25*Percentile(values, 0.95))
}

// Percentile returns the p-quantile of values using linear interpolation
// between closest ranks. The input is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// TopServices ranks services by spend, descending, keeping first-seen order
// for ties. Services whose name contains any of the exclude terms
// (case-insensitive) are left out before ranking.
func TopServices(t model.Totals, n int, exclude []string) []model.ServiceSpend {
	ranked := make([]model.ServiceSpend, 0, len(t.ServiceSpend))
	for _, s := range t.ServiceSpend {
		if excluded(s.Name, exclude) {
			continue
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Cost > ranked[j].Cost
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func excluded(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
