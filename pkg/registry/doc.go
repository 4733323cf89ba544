// Package registry maps block names to field factories and resolves block
// trees into request-scoped field instances.
//
// Types is the process-wide table; extend a Clone of DefaultTypes to add
// third-party fields. Registry is built per request, resolves a tree
// depth-first and keeps the first instance registered for each unique id.
package registry
