// Package router maps console destinations to routes and gates navigation.
//
// Routes are path templates matched with gorilla/mux. Every navigation runs
// the Guard, which restores the session once per process, fetches a missing
// profile, and redirects when authentication or role requirements are not
// met. Router.Push follows those redirects to the final destination.
package router
