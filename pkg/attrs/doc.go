// Package attrs renders ordered HTML attribute sets. Field renderers build an
// Attributes value per tag, hand it to extension hooks for filtering and then
// serialise it with Build. Boolean false and empty values are dropped so
// optional attributes (placeholder, required) never render as empty strings.
package attrs
