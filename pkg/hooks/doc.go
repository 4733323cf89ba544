// Package hooks provides the extension points used across the field pipeline.
//
// Every point is an explicit ordered list of stages. A stage carries a Scope
// that selects the subjects it applies to; Apply runs the generic stages
// first, then the stages registered for the subject's type, then the stages
// registered for its type and slug. Hosts register stages at process start and
// the field pipeline invokes them synchronously with a handle to the owning
// field, which stages are free to inspect and mutate.
package hooks
