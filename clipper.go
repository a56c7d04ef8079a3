// Package clipper turns web pages and shared text into Markdown notes.
// It extracts metadata and readable content from a page, renders that data
// through a user-authored template, and saves the result into a vault folder
// without overwriting existing notes.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package clipper
