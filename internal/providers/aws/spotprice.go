package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/shopspring/decimal"

	"spotinfo/internal/models"
)

// EC2ResourceType is reported on errors raised by this package.
const EC2ResourceType = "EC2"

// Product descriptions the spot price history is queried for.
const (
	ProductLinux   = "Linux/UNIX"
	ProductWindows = "Windows"
)

// SpotPriceService reads current spot prices from the EC2 API
type SpotPriceService struct {
	client EC2ClientAPI
	now    func() time.Time
}

// NewSpotPriceServiceWithDefaultConfig creates a SpotPriceService for a region with the default AWS SDK configuration
func NewSpotPriceServiceWithDefaultConfig(ctx context.Context, region string) (*SpotPriceService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, NewAWSError(ErrConfigurationError, EC2ResourceType, region, "unable to load AWS SDK config", err)
	}

	return NewSpotPriceServiceWithClient(ec2.NewFromConfig(cfg)), nil
}

// NewSpotPriceServiceWithClient creates a new SpotPriceService with a provided client
func NewSpotPriceServiceWithClient(client EC2ClientAPI) *SpotPriceService {
	return &SpotPriceService{
		client: client,
		now:    time.Now,
	}
}

type cheapest struct {
	linux   *decimal.Decimal
	windows *decimal.Decimal
}

// GetSpotPrices returns one price record per instance type offered in the
// region, holding the cheapest current price across its availability zones.
// Records are ordered by instance type.
func (s *SpotPriceService) GetSpotPrices(ctx context.Context, region string) ([]models.PriceRecord, error) {
	if region == "" {
		return nil, NewAWSError(ErrInvalidInput, EC2ResourceType, "", "region is required", nil)
	}

	input := &ec2.DescribeSpotPriceHistoryInput{
		ProductDescriptions: []string{ProductLinux, ProductWindows},
		StartTime:           aws.Time(s.now()),
	}

	prices := map[string]*cheapest{}
	for {
		resp, err := s.client.DescribeSpotPriceHistory(ctx, input)
		if err != nil {
			return nil, ClassifyAWSError(fmt.Errorf("failed to describe spot price history: %w", err), EC2ResourceType, region)
		}

		for _, sp := range resp.SpotPriceHistory {
			addSpotPrice(prices, sp)
		}

		if aws.ToString(resp.NextToken) == "" {
			break
		}
		input.NextToken = resp.NextToken
	}

	return toPriceRecords(prices, region), nil
}

// addSpotPrice keeps the lower of the known and the offered price. Entries
// with an unknown product or an unparsable price are ignored.
func addSpotPrice(prices map[string]*cheapest, sp types.SpotPrice) {
	instanceType := string(sp.InstanceType)
	if instanceType == "" {
		return
	}
	price, err := decimal.NewFromString(aws.ToString(sp.SpotPrice))
	if err != nil {
		return
	}

	entry, ok := prices[instanceType]
	if !ok {
		entry = &cheapest{}
	}

	switch string(sp.ProductDescription) {
	case ProductLinux:
		entry.linux = lower(entry.linux, price)
	case ProductWindows:
		entry.windows = lower(entry.windows, price)
	default:
		return
	}
	prices[instanceType] = entry
}

func lower(current *decimal.Decimal, offered decimal.Decimal) *decimal.Decimal {
	if current == nil || offered.LessThan(*current) {
		return &offered
	}
	return current
}

func toPriceRecords(prices map[string]*cheapest, region string) []models.PriceRecord {
	records := make([]models.PriceRecord, 0, len(prices))
	for instanceType, entry := range prices {
		records = append(records, models.PriceRecord{
			InstanceType: instanceType,
			Region:       region,
			LinuxPrice:   formatPrice(entry.linux),
			WindowsPrice: formatPrice(entry.windows),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].InstanceType < records[j].InstanceType
	})
	return records
}

func formatPrice(price *decimal.Decimal) *string {
	if price == nil {
		return nil
	}
	s := price.String()
	return &s
}
