// Package command implements the catalog-client command line: a one-shot
// "list" and a repeating "watch", both served through the client-side cache
// and stale fallback in package catalog.
package command
