// Package attfetch provides a scraper for paginated project listings with
// versioned attachment downloads. It discovers how many pages a listing has,
// fetches all pages under a bounded worker pool, and for each attachment
// decides — from the remote Last-Modified header and local filesystem state —
// whether to skip, download fresh, or save a dated sibling file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, fs/).
package attfetch
