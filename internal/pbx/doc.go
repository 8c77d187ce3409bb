// Package pbx turns a decoded Xcode project document into a typed object
// graph.
//
// A project.pbxproj file is a flat dictionary of records keyed by opaque
// object IDs. Each record names its type in the "isa" attribute and refers
// to other records by ID. Load builds one typed Node per record and keeps
// them in an Objects arena; cross-references stay IDs until an accessor
// resolves them, and the result is memoized.
//
// # Variants
//
// The set of variants is closed (see Kind). Lookup maps an isa tag to its
// Kind; unregistered tags load as *Unknown and are reported through
// Graph.Diagnostics with code UnknownRecordType. The abstract families are
// exposed as interfaces (Target, BuildPhase, Reference), each with a base
// struct that doubles as the generic view of a record:
//
//	Target      BaseTarget    NativeTarget AggregateTarget LegacyTarget
//	BuildPhase  BasePhase     Sources Frameworks Headers Resources CopyFiles ShellScript
//	Reference   BaseReference FileReference Group VariantGroup VersionGroup ReferenceProxy
//
// As[T] views any record as a concrete variant. When the stored node is of
// another variant a *T is built from the same raw attributes and memoized;
// the stored node itself is never replaced.
//
// # Paths
//
// After the graph is built Load walks the group tree from the project's main
// group (see ResolvePaths) and stores a Path per file reference. A file
// whose path cannot be determined does not fail the load; FileReference.FullPath
// reports a *PathError for it.
//
// # Errors
//
// Malformed documents fail with *DocumentError (ErrDocument). Missing
// required attributes and dangling required references fail with
// *StructuralError or *MissingReferenceError, both matching ErrStructural.
// Optional accessors report absence with a boolean instead.
package pbx
