package reconcile

import (
	"encoding/json"
	"sort"

	"spotinfo/internal/models"
)

// linuxOS is the only advisor branch that is reconciled. The "Windows" branch
// is parsed with the rest of the document but never merged.
const linuxOS = "Linux"

// ReconcileAdvisor reads interruption buckets and savings for every region of
// the advisor document. Regions without a Linux branch contribute nothing.
// Missing or non-integer "r"/"s" values default to 0.
func ReconcileAdvisor(doc *AdvisorDocument, obs Observer) []models.AdvisorRecord {
	obs = observerOrNop(obs)
	var records []models.AdvisorRecord

	for region, raw := range doc.Regions {
		regionPath := "spot_advisor." + region

		osTree, ok := decodeObject(raw)
		if !ok {
			obs.EntrySkipped(SourceAdvisor, NewError(ErrPartialEntryMalformed, DocumentAdvisor, regionPath, "region is not an object", nil))
			continue
		}

		rawLinux, exists := osTree[linuxOS]
		if !exists {
			continue
		}
		instances, ok := decodeObject(rawLinux)
		if !ok {
			obs.EntrySkipped(SourceAdvisor, NewError(ErrPartialEntryMalformed, DocumentAdvisor, regionPath+"."+linuxOS, "OS branch is not an object", nil))
			continue
		}

		for instanceType, rawEntry := range instances {
			entryPath := regionPath + "." + linuxOS + "." + instanceType

			entry, ok := decodeObject(rawEntry)
			if !ok {
				obs.EntrySkipped(SourceAdvisor, NewError(ErrPartialEntryMalformed, DocumentAdvisor, entryPath, "entry is not an object", nil))
				continue
			}

			records = append(records, models.AdvisorRecord{
				InstanceType: instanceType,
				Region:       region,
				Bucket:       models.BucketFromCode(readCode(entry, "r", entryPath, obs)),
				SavingsPct:   int(min(readCode(entry, "s", entryPath, obs), uint64(maxInt))),
			})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Region != records[j].Region {
			return records[i].Region < records[j].Region
		}
		return records[i].InstanceType < records[j].InstanceType
	})

	obs.RecordsBuilt(SourceAdvisor, len(records))
	return records
}

// readCode returns entry[key] as a non-negative integer, or 0.
func readCode(entry map[string]json.RawMessage, key, path string, obs Observer) uint64 {
	raw, present := entry[key]
	if !present {
		return 0
	}
	code, ok := decodeUint(raw)
	if !ok {
		obs.EntrySkipped(SourceAdvisor, NewError(ErrPartialEntryMalformed, DocumentAdvisor, path+"."+key, "not a non-negative integer, using 0", nil))
		return 0
	}
	return code
}
