// Package entry processes form submissions and persists the valid ones.
//
// A Processor detects a submission through its resolver, looks the form up,
// resolves its block tree into a registry and reads every top-level field,
// which validates the submitted values. Valid results are saved as an Entry
// in the configured Store: MemoryStore, or SQLiteStore whose schema ships as
// embedded migrations.
package entry
