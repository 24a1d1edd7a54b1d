package cur_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

func TestIsFixedFee(t *testing.T) {
	for _, lt := range []string{"SavingsPlanRecurringFee", "RIFee", "Fee", "EdpDiscount", "SavingsPlanNegation"} {
		assert.True(t, cur.IsFixedFee(lt), lt)
	}
	for _, lt := range []string{"Usage", "Tax", "Credit", "fee", "Unknown", ""} {
		assert.False(t, cur.IsFixedFee(lt), lt)
	}
}

func TestIsSpot(t *testing.T) {
	assert.True(t, cur.IsSpot("USE1-SpotUsage:c5.xlarge", "Usage"))
	assert.True(t, cur.IsSpot("", "SpotInstanceCharge"))
	assert.True(t, cur.IsSpot("SPOTUSAGE", "Usage"))
	assert.False(t, cur.IsSpot("USE1-BoxUsage:c5.xlarge", "Usage"))
	// "spot" alone in the usage type is not enough
	assert.False(t, cur.IsSpot("spot-thing", "Usage"))
}

func TestClassifier_Classify(t *testing.T) {
	c := cur.NewClassifier(nil)

	tests := []struct {
		name     string
		line     cur.Line
		expected model.Flags
	}{
		{
			name:     "recurring fee",
			line:     cur.Line{LineItemType: "SavingsPlanRecurringFee", ProductCode: "ComputeSavingsPlans"},
			expected: model.Flags{FixedFee: true},
		},
		{
			name: "ec2 box usage",
			line: cur.Line{LineItemType: "Usage", ProductCode: "AmazonEC2", UsageType: "BoxUsage:t3"},
			expected: model.Flags{
				ComputeEligible: true,
				EC2BoxUsage:     true,
			},
		},
		{
			name: "ec2 covered usage",
			line: cur.Line{LineItemType: "SavingsPlanCoveredUsage", ProductCode: "AmazonEC2", UsageType: "EUC1-BoxUsage:m5.large"},
			expected: model.Flags{
				ComputeEligible: true,
				CoveredUsage:    true,
				EC2BoxUsage:     true,
			},
		},
		{
			name: "ec2 spot box usage is every flag at once",
			line: cur.Line{LineItemType: "Usage", ProductCode: "AmazonEC2", UsageType: "SpotUsage:BoxUsage:c5"},
			expected: model.Flags{
				ComputeEligible: true,
				Spot:            true,
				EC2BoxUsage:     true,
			},
		},
		{
			name: "negation is fixed and compute",
			line: cur.Line{LineItemType: "SavingsPlanNegation", ProductCode: "AmazonEC2", UsageType: "BoxUsage:t3"},
			expected: model.Flags{
				FixedFee:        true,
				ComputeEligible: true,
				EC2BoxUsage:     true,
			},
		},
		{
			name: "fargate spot",
			line: cur.Line{LineItemType: "Usage", ProductCode: "AWSFargate", UsageType: "EUC1-SpotUsage-Fargate-vCPU-Hours:perCPU"},
			expected: model.Flags{
				ComputeEligible: true,
				Spot:            true,
				ECSFargatePool:  true,
				FargateSpot:     true,
			},
		},
		{
			name: "ecs on demand",
			line: cur.Line{LineItemType: "Usage", ProductCode: "AmazonECS", UsageType: "EUC1-Fargate-GB-Hours"},
			expected: model.Flags{
				ComputeEligible: true,
				ECSFargatePool:  true,
			},
		},
		{
			name:     "rds usage",
			line:     cur.Line{LineItemType: "Usage", ProductCode: "AmazonRDS", UsageType: "InstanceUsage:db.r5.large"},
			expected: model.Flags{},
		},
		{
			name:     "ec2 tax is not usage",
			line:     cur.Line{LineItemType: "Tax", ProductCode: "AmazonEC2", UsageType: "BoxUsage:t3"},
			expected: model.Flags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.line))
		})
	}
}

func TestClassifier_CustomComputeCodes(t *testing.T) {
	c := cur.NewClassifier([]string{"AWSLambda"})

	assert.True(t, c.IsComputeEligible("AWSLambda", "Usage"))
	assert.False(t, c.IsComputeEligible("AmazonEC2", "Usage"))

	// EC2 box usage does not depend on the compute set
	flags := c.Classify(cur.Line{LineItemType: "Usage", ProductCode: "AmazonEC2", UsageType: "BoxUsage:t3"})
	assert.False(t, flags.ComputeEligible)
	assert.True(t, flags.EC2BoxUsage)
}

func TestDefaultComputeProductCodes(t *testing.T) {
	codes := cur.DefaultComputeProductCodes()
	assert.Equal(t, []string{"AmazonEC2", "AmazonECS", "AWSFargate", "AWSLambda"}, codes)

	codes[0] = "mutated"
	assert.Equal(t, "AmazonEC2", cur.DefaultComputeProductCodes()[0])
}
