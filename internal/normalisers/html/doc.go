// Package html provides a Normaliser implementation for HTML case pages.
// Text comes from the judgment container when the page has one, rendered
// one block per line with hidden elements skipped.
package html
