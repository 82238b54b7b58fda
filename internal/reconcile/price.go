package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"

	"spotinfo/internal/models"
)

const (
	linuxColumn   = "linux"
	windowsColumn = "mswin"
	priceCurrency = "USD"
)

// NormalizeInstanceType turns the price feed's composite "{type}.{size}" into
// the "family.size" key used by the advisor document. When the type carries a
// category prefix ("generalCurrentGen.m5.large") everything up to and
// including the second-to-last dot is dropped. Strings with fewer than two
// dots are returned unchanged.
func NormalizeInstanceType(composite string) string {
	last := strings.LastIndexByte(composite, '.')
	if last < 0 {
		return composite
	}
	prev := strings.LastIndexByte(composite[:last], '.')
	if prev < 0 {
		return composite
	}
	return composite[prev+1:]
}

// ReconcilePrices walks config.regions[].instanceTypes[].sizes[] and emits one
// record per size, in document order. Only the exact column names "linux"
// and "mswin" are read.
func ReconcilePrices(doc *PriceDocument, obs Observer) []models.PriceRecord {
	obs = observerOrNop(obs)
	var records []models.PriceRecord

	for i, rawRegion := range doc.Regions {
		regionPath := fmt.Sprintf("config.regions[%d]", i)

		region, ok := decodeObject(rawRegion)
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, regionPath, "region is not an object", nil))
			continue
		}
		regionName, ok := decodeString(region["region"])
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, regionPath+".region", "region label is missing", nil))
			continue
		}
		types, ok := decodeArray(region["instanceTypes"])
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, regionPath+".instanceTypes", "not a list", nil))
			continue
		}

		for j, rawType := range types {
			records = append(records, reconcileInstanceType(regionName, fmt.Sprintf("%s.instanceTypes[%d]", regionPath, j), rawType, obs)...)
		}
	}

	obs.RecordsBuilt(SourcePrice, len(records))
	return records
}

func reconcileInstanceType(region, path string, raw json.RawMessage, obs Observer) []models.PriceRecord {
	instanceType, ok := decodeObject(raw)
	if !ok {
		obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, path, "instance type is not an object", nil))
		return nil
	}
	typeName, ok := decodeString(instanceType["type"])
	if !ok {
		obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, path+".type", "type label is missing", nil))
		return nil
	}
	sizes, ok := decodeArray(instanceType["sizes"])
	if !ok {
		obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, path+".sizes", "not a list", nil))
		return nil
	}

	records := make([]models.PriceRecord, 0, len(sizes))
	for k, rawSize := range sizes {
		sizePath := fmt.Sprintf("%s.sizes[%d]", path, k)

		size, ok := decodeObject(rawSize)
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, sizePath, "size is not an object", nil))
			continue
		}
		sizeName, ok := decodeString(size["size"])
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, sizePath+".size", "size label is missing", nil))
			continue
		}

		record := models.PriceRecord{
			InstanceType: NormalizeInstanceType(typeName + "." + sizeName),
			Region:       region,
		}
		readValueColumns(&record, size["valueColumns"], sizePath+".valueColumns", obs)
		records = append(records, record)
	}
	return records
}

// readValueColumns sets the record's prices from a valueColumns list. A bad
// list or column leaves the prices it would have provided unset.
func readValueColumns(record *models.PriceRecord, raw json.RawMessage, path string, obs Observer) {
	columns, ok := decodeArray(raw)
	if !ok {
		obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, path, "not a list", nil))
		return
	}

	for i, rawColumn := range columns {
		column, ok := decodeObject(rawColumn)
		if !ok {
			obs.EntrySkipped(SourcePrice, NewError(ErrPartialEntryMalformed, DocumentPrice, fmt.Sprintf("%s[%d]", path, i), "column is not an object", nil))
			continue
		}
		name, _ := decodeString(column["name"])
		if name != linuxColumn && name != windowsColumn {
			continue
		}

		prices, ok := decodeObject(column["prices"])
		if !ok {
			continue
		}
		usd, ok := decodeString(prices[priceCurrency])
		if !ok {
			continue
		}

		if name == linuxColumn {
			record.LinuxPrice = &usd
		} else {
			record.WindowsPrice = &usd
		}
	}
}
