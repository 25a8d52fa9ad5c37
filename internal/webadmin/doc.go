// Package webadmin provides the browser console for the conference CMS.
//
// # Overview
//
// The console is server rendered. Pages are thin shells; each content
// manager is a panel fetched and replaced with htmx. Every panel operation
// answers with the re-rendered panel plus the notice list out of band.
//
// # Sessions
//
// Each browser gets a random session id cookie. The id scopes:
//
//   - the stored backend credential (session.Store)
//   - the in-memory Workspace holding every manager's items and draft
//
// Workspaces are evicted after an idle period or when the registry is full.
//
// # Authentication
//
// Full pages pass the route guard and then the auth gate, which confirms
// the operator with the backend. Panel requests only check that a
// credential exists; the backend rejects expired ones.
//
// # Pages and panels
//
// Navigating to a page unmounts every panel that page does not show, so
// drafts do not survive a page change and late responses are dropped.
// Reloading the same page keeps them.
//
// # CSRF Protection
//
// State-changing requests carry a gorilla/csrf token, either as the
// csrf_token form field or the X-CSRF-Token header htmx sends from the
// page body.
//
// # Usage
//
//	admin := webadmin.New(client, tokens, cfg)
//	defer admin.Close()
//	admin.RegisterRoutes(mux)
package webadmin
