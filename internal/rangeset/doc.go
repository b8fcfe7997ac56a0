// Package rangeset parses selection expressions such as "1-3,7,10-" into
// immutable integer predicates.
//
// A selection argument is a comma-separated list of single values and
// inclusive intervals whose sides may be left open. Several selections given
// for one listing combine as a logical OR, and no selection at all selects
// everything.
package rangeset
