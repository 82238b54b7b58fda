package reconcile

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Document names used in errors.
const (
	DocumentAdvisor = "advisor"
	DocumentPrice   = "price"
)

// AdvisorDocument is the spot advisor feed after its top-level shape has been
// verified. Nested entries stay raw so that one bad entry cannot fail the
// whole document; the reconcilers decode them leaf by leaf.
type AdvisorDocument struct {
	// Regions maps a region name to its OS -> instance type tree.
	Regions map[string]json.RawMessage
	// InstanceTypes maps an instance type to its hardware specification.
	InstanceTypes map[string]json.RawMessage
}

// PriceDocument is the spot price feed (with the callback wrapper already
// removed) after its config.regions list has been verified.
type PriceDocument struct {
	Regions []json.RawMessage
}

// ParseAdvisorDocument verifies the top-level shape of the advisor document.
// A missing or non-object "spot_advisor" is a malformed document; a missing
// "instance_types" table only means no hardware specs are known.
func ParseAdvisorDocument(data []byte) (*AdvisorDocument, error) {
	top, ok := decodeObject(data)
	if !ok {
		return nil, NewError(ErrMalformedDocument, DocumentAdvisor, "", "document is not a JSON object", nil)
	}

	rawAdvisor, exists := top["spot_advisor"]
	if !exists {
		return nil, NewError(ErrMalformedDocument, DocumentAdvisor, "spot_advisor", "key is missing", nil)
	}
	regions, ok := decodeObject(rawAdvisor)
	if !ok {
		return nil, NewError(ErrMalformedDocument, DocumentAdvisor, "spot_advisor", "value is not an object", nil)
	}

	doc := &AdvisorDocument{
		Regions:       regions,
		InstanceTypes: map[string]json.RawMessage{},
	}

	// A missing or non-object instance_types table leaves every spec unknown.
	if types, ok := decodeObject(top["instance_types"]); ok {
		doc.InstanceTypes = types
	}

	return doc, nil
}

// RegionNames returns the regions present in the advisor document, sorted.
func (d *AdvisorDocument) RegionNames() []string {
	names := make([]string, 0, len(d.Regions))
	for name := range d.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePriceDocument verifies that the price document carries a config.regions list.
func ParsePriceDocument(data []byte) (*PriceDocument, error) {
	top, ok := decodeObject(data)
	if !ok {
		return nil, NewError(ErrMalformedDocument, DocumentPrice, "", "document is not a JSON object", nil)
	}

	rawConfig, exists := top["config"]
	if !exists {
		return nil, NewError(ErrMalformedDocument, DocumentPrice, "config", "key is missing", nil)
	}
	config, ok := decodeObject(rawConfig)
	if !ok {
		return nil, NewError(ErrMalformedDocument, DocumentPrice, "config", "value is not an object", nil)
	}

	rawRegions, exists := config["regions"]
	if !exists {
		return nil, NewError(ErrMalformedDocument, DocumentPrice, "config.regions", "key is missing", nil)
	}
	regions, ok := decodeArray(rawRegions)
	if !ok {
		return nil, NewError(ErrMalformedDocument, DocumentPrice, "config.regions", "value is not a list", nil)
	}

	return &PriceDocument{Regions: regions}, nil
}

// RegionNames returns the labels of all well-formed region entries, sorted.
func (d *PriceDocument) RegionNames() []string {
	names := make([]string, 0, len(d.Regions))
	for _, raw := range d.Regions {
		region, ok := decodeObject(raw)
		if !ok {
			continue
		}
		if name, ok := decodeString(region["region"]); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || arr == nil {
		return nil, false
	}
	return arr, true
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeNumber accepts JSON number literals only; quoted numbers are rejected.
func decodeNumber(raw json.RawMessage) (json.Number, bool) {
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	n, ok := v.(json.Number)
	return n, ok
}

// decodeUint accepts non-negative integer literals ("2", not "2.0" or "-1").
func decodeUint(raw json.RawMessage) (uint64, bool) {
	n, ok := decodeNumber(raw)
	if !ok {
		return 0, false
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return u, true
}

// decodeInt is decodeUint narrowed to int.
func decodeInt(raw json.RawMessage) (int, bool) {
	u, ok := decodeUint(raw)
	if !ok || u > uint64(maxInt) {
		return 0, false
	}
	return int(u), true
}

func decodeFloat(raw json.RawMessage) (float64, bool) {
	n, ok := decodeNumber(raw)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

const maxInt = int(^uint(0) >> 1)
