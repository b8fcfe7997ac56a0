// Package abbrev maps every unique prefix of a candidate set to the candidate
// it identifies.
//
// Tables are pure values built once per resolution point (one command group,
// one list of output formats). A prefix shared by two candidates is ambiguous
// for good, while a complete candidate always resolves to itself.
package abbrev
