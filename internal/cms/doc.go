// ABOUTME: Package cms is the typed REST client for the conference backend
// ABOUTME: Resources, documents, auth, and dashboard endpoints under /api

// Package cms wraps the conference CMS REST API.
//
// Every request is rooted at <backend>/api and carries the stored bearer
// credential when one exists. List resources are exposed as Collection values
// and singletons as Document values; each picks its update verb and whether a
// save goes out as JSON or multipart/form-data. Non-2xx responses become
// *APIError, whose Message holds the backend's reason when it sent one.
package cms
