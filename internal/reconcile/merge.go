package reconcile

import (
	"sort"

	"spotinfo/internal/models"
)

// Index maps instance type -> region -> merged record.
type Index map[string]map[string]*models.MergedRecord

// Merge left-joins advisor and price records, enriching advisor records with
// hardware specs. Every (instance type, region) pair produced by either source
// ends up in the index exactly once.
func Merge(specs map[string]models.InstanceSpec, advisor []models.AdvisorRecord, prices []models.PriceRecord) Index {
	idx := Index{}
	for _, rec := range advisor {
		idx.AddAdvisor(rec, specs)
	}
	for _, rec := range prices {
		idx.AddPrice(rec)
	}
	return idx
}

// AddAdvisor folds an advisor record into the index. Only fields that are
// still unset are written, so the order of Add calls does not matter.
func (idx Index) AddAdvisor(rec models.AdvisorRecord, specs map[string]models.InstanceSpec) {
	merged := idx.entry(rec.InstanceType, rec.Region)

	if merged.Bucket == nil {
		bucket := rec.Bucket
		merged.Bucket = &bucket
	}
	if merged.SavingsPct == nil {
		savings := rec.SavingsPct
		merged.SavingsPct = &savings
	}

	spec, ok := specs[rec.InstanceType]
	if !ok {
		return
	}
	if merged.MemoryGB == nil && spec.MemoryGB != nil {
		memory := *spec.MemoryGB
		merged.MemoryGB = &memory
	}
	if merged.Cores == nil && spec.Cores != nil {
		cores := *spec.Cores
		merged.Cores = &cores
	}
}

// AddPrice folds a price record into the index, never touching advisor fields.
func (idx Index) AddPrice(rec models.PriceRecord) {
	merged := idx.entry(rec.InstanceType, rec.Region)

	if merged.LinuxPrice == nil && rec.LinuxPrice != nil {
		linux := *rec.LinuxPrice
		merged.LinuxPrice = &linux
	}
	if merged.WindowsPrice == nil && rec.WindowsPrice != nil {
		windows := *rec.WindowsPrice
		merged.WindowsPrice = &windows
	}
}

func (idx Index) entry(instanceType, region string) *models.MergedRecord {
	regions, ok := idx[instanceType]
	if !ok {
		regions = map[string]*models.MergedRecord{}
		idx[instanceType] = regions
	}

	merged, ok := regions[region]
	if !ok {
		merged = &models.MergedRecord{InstanceType: instanceType, Region: region}
		regions[region] = merged
	}
	return merged
}

// Regions returns every region that has at least one record, sorted.
func (idx Index) Regions() []string {
	seen := map[string]struct{}{}
	for _, regions := range idx {
		for region := range regions {
			seen[region] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for region := range seen {
		names = append(names, region)
	}
	sort.Strings(names)
	return names
}
