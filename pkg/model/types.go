package model

import "time"

// BillingRow is one record of a Cost and Usage Report, keyed by column header.
// A column missing from the map is absent; a present column may still be blank.
type BillingRow map[string]string

// Flags holds the independent per-row classification decisions.
// A single row may set several of them at once.
type Flags struct {
	FixedFee        bool
	ComputeEligible bool
	CoveredUsage    bool
	Spot            bool
	EC2BoxUsage     bool
	ECSFargatePool  bool
	FargateSpot     bool
}

// Params are the caller-supplied scenario inputs.
type Params struct {
	AdditionalCoverage  float64   `json:"additional_coverage" yaml:"additional_coverage"`
	SpotDiscount        float64   `json:"spot_discount" yaml:"spot_discount"`
	PassThrough         []float64 `json:"pass_through" yaml:"pass_through"`
	ComputeProductCodes []string  `json:"compute_product_codes,omitempty" yaml:"compute_product_codes,omitempty"`
	ExcludeServices     []string  `json:"exclude_services,omitempty" yaml:"exclude_services,omitempty"`
}

// ServiceSpend is a single service total.
type ServiceSpend struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// Totals are the running sums produced by one aggregation pass.
type Totals struct {
	RowCount    int
	UndatedRows int

	TotalBill    float64
	FixedMonthly float64

	// DailyVariable maps a YYYY-MM-DD day to the net cost of non-fixed rows.
	DailyVariable map[string]float64
	// ServiceSpend keeps services in first-seen order.
	ServiceSpend []ServiceSpend

	ComputeBaseline float64
	ComputeActual   float64
	CoveredBaseline float64

	SpotNet        float64
	EC2BoxNet      float64
	EC2BoxBaseline float64
	ECSNet         float64
	ECSBaseline    float64
	FargateSpotNet float64

	PeriodStart string
	PeriodEnd   string
}

// Ratios are the fractions derived from Totals right after aggregation.
type Ratios struct {
	ComputeShareTotal float64
	ObservedDiscount  float64
	CurrentCoverage   float64
	SpotShareTotal    float64
	SpotShareCompute  float64
}

// PassThroughRow is one row of the pass-through impact table.
type PassThroughRow struct {
	PassThrough      float64 `json:"pt"`
	DiscToCustomer   float64 `json:"discToCustomer"`
	OverallReduction float64 `json:"overallReduction"`
	MonthlySavings   float64 `json:"monthlySavings"`
	AnnualSavings    float64 `json:"annualSavings"`
}

// SpotScenarioRow is one adoption level of the spot projection.
type SpotScenarioRow struct {
	Adoption   float64 `json:"a"`
	SavingsEC2 float64 `json:"savEC2"`
	OverallEC2 float64 `json:"overallEC2"`
	SavingsECS float64 `json:"savECS"`
	OverallECS float64 `json:"overallECS"`
}

// Result is the full output record consumed by renderers. JSON names follow
// the dashboard contract and must not change.
type Result struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	RowCount    int    `json:"rowCount"`
	UndatedRows int    `json:"undatedRows"`

	TotalBill               float64 `json:"totalBill"`
	FixedMonthly            float64 `json:"fixedMonthly"`
	ComputePublicBaseline   float64 `json:"computePublicBaseline"`
	ComputeActualCost       float64 `json:"computeActualCost"`
	CoveredPublicBaseline   float64 `json:"coveredPublicBaseline"`
	ComputeShareTotal       float64 `json:"computeShareTotal"`
	ObservedDiscount        float64 `json:"observedDiscount"`
	CurrentCoverage         float64 `json:"currentCoverage"`
	AddCoverage             float64 `json:"addCoverage"`
	TargetCoverage          float64 `json:"targetCoverage"`
	IncrementalCommitmentOD float64 `json:"incrementalCommitmentOD"`
	AffectedSliceTotalBill  float64 `json:"affectedSliceTotalBill"`

	DailyX            []string  `json:"dailyX"`
	DailyVarY         []float64 `json:"dailyVarY"`
	DailyNormY        []float64 `json:"dailyNormY"`
	FixedPerDay       float64   `json:"fixedPerDay"`
	DailyChartCeiling float64   `json:"dailyChartCeiling"`

	TopServiceNames []string  `json:"topSvcNames"`
	TopServiceCosts []float64 `json:"topSvcCosts"`

	PassThroughRows []PassThroughRow `json:"ptRows"`

	SpotNet          float64           `json:"spotNet"`
	SpotShareTotal   float64           `json:"spotShareTotal"`
	SpotShareCompute float64           `json:"spotShareCompute"`
	EC2BoxNet        float64           `json:"ec2BoxNet"`
	EC2BoxBaseline   float64           `json:"ec2BoxBaseline"`
	ECSNet           float64           `json:"ecsNet"`
	ECSBaseline      float64           `json:"ecsBaseline"`
	FargateSpotNet   float64           `json:"fargateSpotNet"`
	SpotDiscount     float64           `json:"spotDisc"`
	SpotScenario     []SpotScenarioRow `json:"spotScenario"`
}

// BestAnnualSavings returns the largest annual savings across the
// pass-through table, or 0 when the table is empty.
func (r *Result) BestAnnualSavings() float64 {
	best := 0.0
	for i, row := range r.PassThroughRows {
		if i == 0 || row.AnnualSavings > best {
			best = row.AnnualSavings
		}
	}
	return best
}

// Run is a persisted analysis.
type Run struct {
	ID               string    `json:"id" db:"id"`
	Source           string    `json:"source" db:"source"`
	Profile          string    `json:"profile" db:"profile"`
	RowCount         int       `json:"row_count" db:"row_count"`
	Params           Params    `json:"params" db:"params"`
	TotalBill        float64   `json:"total_bill" db:"total_bill"`
	ObservedDiscount float64   `json:"observed_discount" db:"observed_discount"`
	CurrentCoverage  float64   `json:"current_coverage" db:"current_coverage"`
	Result           *Result   `json:"result,omitempty" db:"result"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// RunFilter controls which runs are listed.
type RunFilter struct {
	Source    string    `json:"source,omitempty"`
	Profile   string    `json:"profile,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}
