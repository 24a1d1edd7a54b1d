package cur

import (
	"strings"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Product codes referenced by the classifier.
const (
	ProductEC2     = "AmazonEC2"
	ProductECS     = "AmazonECS"
	ProductFargate = "AWSFargate"
	ProductLambda  = "AWSLambda"
)

// Line item types referenced by the classifier.
const (
	LineItemUsage                   = "Usage"
	LineItemSavingsPlanCoveredUsage = "SavingsPlanCoveredUsage"
	LineItemSavingsPlanNegation     = "SavingsPlanNegation"
	LineItemSavingsPlanRecurringFee = "SavingsPlanRecurringFee"
	LineItemRIFee                   = "RIFee"
	LineItemFee                     = "Fee"
	LineItemEdpDiscount             = "EdpDiscount"
)

var fixedFeeTypes = map[string]struct{}{
	LineItemSavingsPlanRecurringFee: {},
	LineItemRIFee:                   {},
	LineItemFee:                     {},
	LineItemEdpDiscount:             {},
	LineItemSavingsPlanNegation:     {},
}

var usageLineTypes = map[string]struct{}{
	LineItemUsage:                   {},
	LineItemSavingsPlanCoveredUsage: {},
	LineItemSavingsPlanNegation:     {},
}

var containerPoolCodes = map[string]struct{}{
	ProductECS:     {},
	ProductFargate: {},
}

// DefaultComputeProductCodes returns the product codes treated as
// Savings Plan eligible compute when none are configured.
func DefaultComputeProductCodes() []string {
	return []string{ProductEC2, ProductECS, ProductFargate, ProductLambda}
}

// IsFixedFee reports whether a line item type is a fixed monthly charge.
func IsFixedFee(lineItemType string) bool {
	_, ok := fixedFeeTypes[lineItemType]
	return ok
}

// IsUsageLine reports whether a line item type carries compute usage.
func IsUsageLine(lineItemType string) bool {
	_, ok := usageLineTypes[lineItemType]
	return ok
}

// IsSpot matches either the usage type or the line item type.
func IsSpot(usageType, lineItemType string) bool {
	return containsFold(usageType, "spotusage") || containsFold(lineItemType, "spot")
}

// IsEC2BoxUsage reports whether a line is EC2 instance-hours usage.
func IsEC2BoxUsage(productCode, lineItemType, usageType string) bool {
	return productCode == ProductEC2 && IsUsageLine(lineItemType) && containsFold(usageType, "boxusage")
}

// IsContainerPool reports whether a line is ECS or Fargate usage.
func IsContainerPool(productCode, lineItemType string) bool {
	_, ok := containerPoolCodes[productCode]
	return ok && IsUsageLine(lineItemType)
}

// Classifier assigns the independent classification flags to a line. The
// compute product set is fixed at construction.
type Classifier struct {
	compute map[string]struct{}
}

// NewClassifier creates a classifier. An empty code list selects
// DefaultComputeProductCodes.
func NewClassifier(computeCodes []string) *Classifier {
	if len(computeCodes) == 0 {
		computeCodes = DefaultComputeProductCodes()
	}
	m := make(map[string]struct{}, len(computeCodes))
	for _, c := range computeCodes {
		m[c] = struct{}{}
	}
	return &Classifier{compute: m}
}

// IsComputeEligible reports whether a line counts toward the compute baseline.
func (c *Classifier) IsComputeEligible(productCode, lineItemType string) bool {
	_, ok := c.compute[productCode]
	return ok && IsUsageLine(lineItemType)
}

// Classify evaluates every flag for a line.
func (c *Classifier) Classify(l Line) model.Flags {
	pool := IsContainerPool(l.ProductCode, l.LineItemType)
	return model.Flags{
		FixedFee:        IsFixedFee(l.LineItemType),
		ComputeEligible: c.IsComputeEligible(l.ProductCode, l.LineItemType),
		CoveredUsage:    l.LineItemType == LineItemSavingsPlanCoveredUsage,
		Spot:            IsSpot(l.UsageType, l.LineItemType),
		EC2BoxUsage:     IsEC2BoxUsage(l.ProductCode, l.LineItemType, l.UsageType),
		ECSFargatePool:  pool,
		FargateSpot:     pool && containsFold(l.UsageType, "spotusage"),
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
