// Package textutil provides text processing utilities for normalization,
// fingerprinting, and similarity scoring of estimate line items.
//
// The primary use cases are:
//   - Normalizing names and descriptions before comparing line items
//   - Collapsing whitespace in model-produced descriptions
//   - Word-overlap and cosine similarity between short phrases
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// The tokenization process lowercases text, splits on non-alphanumeric characters,
// and filters tokens shorter than 3 characters.
package textutil
