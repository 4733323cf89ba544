// Package field implements the form field model.
//
// A field is built from a block's raw attributes and a Definition describing
// its variant. Construction merges attributes over the variant defaults,
// derives a slug and the notice catalogue, and validates the default value.
// SetValue threads a value through the set-value hooks, the required check
// and the variant sanitizer; failures never escape the field but become
// notices and clear its validity. Render produces an ordered Structure of
// named parts, every one of which can be filtered through Hooks.
//
// Repeater is the only composite variant. Its value is a list of records
// keyed by child base name, and each record is validated by the child
// fields reached through a Lookup.
package field
