// Package content defines the conference CMS documents edited by the admin console.
//
// # Overview
//
// Every type mirrors a backend document. The console keeps two copies of
// each: the remote snapshot returned by the backend and a draft that the
// operator edits. Drafts are produced with the explicit Clone methods in
// this package, never by a serialization round trip, so transient fields
// such as a pending image upload survive the copy.
//
// # Nested edits
//
// Sections, committees and navbar items carry ordered nested arrays. All
// nested edits are value-returning functions: they build a new slice with
// Append, ReplaceAt or RemoveAt and return a new parent value. The input is
// never written to.
//
//	s = s.WithParagraph(0, s.Paragraphs[0].AddBullet("Keynote"))
//	s = s.RemoveParagraph(1)
//
// # Sanitization
//
// Blank bullets are dropped when they are added or edited. Committee roles
// that are completely empty are kept while editing and dropped by
// Committee.Sanitize at save time.
//
// # Images
//
// Image fields hold the remote URL and, separately, an Upload that has been
// selected but not yet sent. Preview returns a data URL for the pending
// upload when there is one, else the remote URL.
package content
