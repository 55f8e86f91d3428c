// Package captable maintains a company's capitalization records and derives
// point-in-time ownership from them.
//
// A Record holds the company, its stakeholders, security classes, share issuances,
// option grants, SAFEs and valuations. The package never mutates a Record, it only
// reads it and computes:
//   - Vesting: VestedQty turns a monthly vesting schedule with a cliff into a vested
//     quantity on a given date.
//   - SAFE conversion: a Pricer picks the conversion price of a SAFE at a priced
//     round among round price, valuation cap and discount.
//   - Cap table: CalcCap aggregates issuances and option grants into outstanding
//     and fully diluted ownership per stakeholder.
//   - Validation: ValidateExtended checks the record structure, references,
//     capacities and business rules, and reports errors and warnings.
//
// Load and Save persist a Record as a json file. This package serves as the
// foundational logic for the `ct` command-line tool.
package captable
