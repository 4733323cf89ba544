// Package formstore resolves form ids into block trees.
//
// Memory keeps forms in process. FS reads one JSON or YAML document per form
// from an fs.FS and caches the parsed trees for a configurable TTL. Both fill
// in deterministic unique ids for blocks that lack one, so ids match between
// the render and the submission of a form.
package formstore
