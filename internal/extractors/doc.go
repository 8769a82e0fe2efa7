// Package extractors provides implementations of the TextExtractor
// interface for the supported upload formats. Each extractor knows how to
// pull plain text out of one family of file extensions.
//
// Extractors are registered with the Registry at startup.
package extractors
