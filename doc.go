// Package formation renders block-declared forms and processes their
// submissions.
//
// An Engine looks forms up through a formstore.Lookup, resolves their block
// trees into field instances (see pkg/registry and pkg/field), and renders
// them wrapped in a <form> carrying the hidden form id that marks a post as a
// submission. Submit validates a submission and, when valid, persists it as
// an entry.
//
//	forms, _ := formstore.NewMemory(formstore.Form{ID: "contact", Blocks: blocks})
//	engine := formation.New(formation.WithForms(forms), formation.WithStore(entry.NewMemoryStore()))
//	http.Handle("/contact", engine.Handler("contact"))
package formation
