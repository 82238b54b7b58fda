package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"spotinfo/internal/models"
)

// EC2ClientAPI defines the interface for EC2 operations we need to mock
//
//go:generate mockery --name=EC2ClientAPI --output=./mocks
type EC2ClientAPI interface {
	DescribeSpotPriceHistory(ctx context.Context, params *ec2.DescribeSpotPriceHistoryInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSpotPriceHistoryOutput, error)
}

// SpotPriceServiceAPI defines the interface for spot price lookups
//
//go:generate mockery --name=SpotPriceServiceAPI --output=./mocks
type SpotPriceServiceAPI interface {
	GetSpotPrices(ctx context.Context, region string) ([]models.PriceRecord, error)
}
