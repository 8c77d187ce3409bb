/*
Package keypath addresses values inside a loaded project document.

A key path is a dot-separated sequence of attribute names, each optionally
followed by an array index, e.g. `targets[0].buildPhases[1].isa`.

Evaluation starts at the root PBXProject record. Whenever a step lands on a
string that is the ID of another record, the next step continues inside that
record, so object references are followed transparently. A path whose first
segment is an object ID starts at that record instead.
*/
package keypath
