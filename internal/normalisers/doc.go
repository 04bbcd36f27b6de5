// Package normalisers provides implementations of the Normaliser interface
// for the corpus file formats. Each normaliser knows how to extract paragraph
// text from a set of file extensions.
//
// Normalisers are registered with the Registry at startup.
package normalisers
