package models

import (
	"fmt"
	"strconv"
)

// NotAvailable is rendered in place of any field a source did not provide.
const NotAvailable = "N/A"

// InstanceSpec holds the hardware specification of an instance type as published
// in the advisor document's instance_types table.
type InstanceSpec struct {
	InstanceType string   `json:"instance_type"`
	MemoryGB     *float64 `json:"memory_gb,omitempty"`
	Cores        *int     `json:"cores,omitempty"`
}

// InterruptionBucket is the discrete interruption-frequency range of a spot market.
type InterruptionBucket int

const (
	BucketUnder5 InterruptionBucket = iota
	Bucket5To10
	Bucket10To15
	Bucket15To20
	BucketOver20
)

var bucketLabels = [...]string{"<5%", "5-10%", "10-15%", "15-20%", ">20%"}

// BucketFromCode maps the advisor's integer rate code onto a bucket.
// Codes 0-3 index the table directly; anything from 4 up is ">20%".
func BucketFromCode(code uint64) InterruptionBucket {
	if code >= uint64(BucketOver20) {
		return BucketOver20
	}
	return InterruptionBucket(code)
}

// String returns the display label of the bucket.
func (b InterruptionBucket) String() string {
	if b < BucketUnder5 || b > BucketOver20 {
		return NotAvailable
	}
	return bucketLabels[b]
}

// AdvisorRecord is one Linux entry of the advisor document for a region.
type AdvisorRecord struct {
	InstanceType string
	Region       string
	Bucket       InterruptionBucket
	SavingsPct   int
}

// PriceRecord is the spot price of one instance type in one region.
type PriceRecord struct {
	InstanceType string
	Region       string
	LinuxPrice   *string
	WindowsPrice *string
}

// MergedRecord is the reconciled view of one instance type in one region.
// A nil field means no source provided it.
type MergedRecord struct {
	InstanceType string
	Region       string
	Bucket       *InterruptionBucket
	SavingsPct   *int
	LinuxPrice   *string
	WindowsPrice *string
	MemoryGB     *float64
	Cores        *int
}

// Row is a fully rendered output line. LinuxPrice and WindowsPrice are only
// set when prices were requested.
type Row struct {
	InstanceType string  `json:"instance_type" yaml:"instance_type"`
	Region       string  `json:"region" yaml:"region"`
	Interruption string  `json:"interruption_rate" yaml:"interruption_rate"`
	MemoryGB     string  `json:"memory_gb" yaml:"memory_gb"`
	Cores        string  `json:"cores" yaml:"cores"`
	LinuxPrice   *string `json:"linux_spot_price,omitempty" yaml:"linux_spot_price,omitempty"`
	WindowsPrice *string `json:"windows_spot_price,omitempty" yaml:"windows_spot_price,omitempty"`
	Savings      string  `json:"savings" yaml:"savings"`
}

// NewRow renders a merged record.
func NewRow(rec MergedRecord, showPrice bool) Row {
	row := Row{
		InstanceType: rec.InstanceType,
		Region:       rec.Region,
		Interruption: NotAvailable,
		MemoryGB:     NotAvailable,
		Cores:        NotAvailable,
		Savings:      NotAvailable,
	}

	if rec.Bucket != nil {
		row.Interruption = rec.Bucket.String()
	}
	if rec.MemoryGB != nil {
		row.MemoryGB = strconv.FormatFloat(*rec.MemoryGB, 'f', -1, 64)
	}
	if rec.Cores != nil {
		row.Cores = strconv.Itoa(*rec.Cores)
	}
	if rec.SavingsPct != nil {
		row.Savings = fmt.Sprintf("%d%%", *rec.SavingsPct)
	}

	if showPrice {
		row.LinuxPrice = priceCell(rec.LinuxPrice)
		row.WindowsPrice = priceCell(rec.WindowsPrice)
	}

	return row
}

func priceCell(p *string) *string {
	s := NotAvailable
	if p != nil {
		s = *p
	}
	return &s
}

// HasPrices reports whether the row carries price columns.
func (r Row) HasPrices() bool {
	return r.LinuxPrice != nil || r.WindowsPrice != nil
}

// Cells returns the row's values in column order.
func (r Row) Cells() []string {
	cells := []string{r.InstanceType, r.Region, r.Interruption, r.MemoryGB, r.Cores}
	if r.HasPrices() {
		cells = append(cells, deref(r.LinuxPrice), deref(r.WindowsPrice))
	}
	return append(cells, r.Savings)
}

func deref(p *string) string {
	if p == nil {
		return NotAvailable
	}
	return *p
}
