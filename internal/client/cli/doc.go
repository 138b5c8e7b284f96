// Package cli provides the interactive blacklist admin console.
//
// It wires configuration, the local session database, the request pipeline,
// the credential store and the navigation router, then runs a REPL. Every
// command first navigates to its destination, so authentication and role
// checks happen exactly as they would for a page visit. A destination that
// requires login prompts for credentials; a denied destination prints a
// notice and the command is skipped.
//
// Command inputs that are files (imports, uploads, JSON bodies) and export
// outputs are addressed by URL through viant/afs, so plain paths, file://
// and mem:// locations all work.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
