package reconcile

import (
	"spotinfo/internal/models"
)

// BuildSpecIndex indexes the advisor document's instance_types table.
// A missing or non-numeric field leaves that field nil; the instance type is
// indexed regardless.
func BuildSpecIndex(doc *AdvisorDocument, obs Observer) map[string]models.InstanceSpec {
	obs = observerOrNop(obs)
	index := make(map[string]models.InstanceSpec, len(doc.InstanceTypes))

	for name, raw := range doc.InstanceTypes {
		spec := models.InstanceSpec{InstanceType: name}
		path := "instance_types." + name

		fields, ok := decodeObject(raw)
		if !ok {
			obs.EntrySkipped(SourceSpecs, NewError(ErrPartialEntryMalformed, DocumentAdvisor, path, "specification is not an object", nil))
			index[name] = spec
			continue
		}

		if ram, ok := decodeFloat(fields["ram_gb"]); ok {
			spec.MemoryGB = &ram
		} else if _, present := fields["ram_gb"]; present {
			obs.EntrySkipped(SourceSpecs, NewError(ErrPartialEntryMalformed, DocumentAdvisor, path+".ram_gb", "not a number", nil))
		}

		if cores, ok := decodeInt(fields["cores"]); ok {
			spec.Cores = &cores
		} else if _, present := fields["cores"]; present {
			obs.EntrySkipped(SourceSpecs, NewError(ErrPartialEntryMalformed, DocumentAdvisor, path+".cores", "not a non-negative integer", nil))
		}

		index[name] = spec
	}

	obs.RecordsBuilt(SourceSpecs, len(index))
	return index
}
