// Package dispatch routes a user's argument vector through a nested command
// table.
//
// The table is a tree of Group and Handler nodes built once at startup. Each
// argument is resolved against the current group's names with abbreviation
// matching, so "tr l" reaches "tracks list". The first argument that names
// nothing in a group is treated as data and handed, with everything after it,
// to that group's default handler. Exactly one handler runs per dispatch.
package dispatch
