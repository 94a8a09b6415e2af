// Package normalisers provides implementations of the Normaliser interface
// for case document formats. Each normaliser knows how to extract text
// content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; Default returns
// a registry holding every built-in normaliser.
package normalisers
