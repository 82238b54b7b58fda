// Package reconcile joins the spot advisor and spot price feeds into one view
// per instance type and region.
//
// The advisor feed is keyed region -> OS -> instance type and carries an
// interruption code and a savings percentage, plus a flat table of hardware
// specs. The price feed is a list of regions -> instance type categories ->
// sizes -> value columns, and names instances "{category}.{family}.{size}".
// Both are reduced to records keyed by the normalized "family.size" name and
// folded into an Index, which Select projects onto one region.
//
// Malformed top-level structure is reported as ErrMalformedDocument. Any
// nested entry with an unexpected shape is skipped or read with defaults and
// reported to the Observer; it never stops the run.
//
// # Usage
//
//	advisor, err := reconcile.ParseAdvisorDocument(advisorJSON)
//	prices, err := reconcile.ParsePriceDocument(priceJSON)
//	rows, err := reconcile.NewEngine().Run(reconcile.Request{Region: "us-east-1"}, advisor, prices)
package reconcile
