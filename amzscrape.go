// Package amzscrape extracts structured product data from marketplace
// product and search pages and resolves canonical product identifiers from
// arbitrary product URLs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package amzscrape
