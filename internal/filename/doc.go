// Package filename turns loosely structured release names into a canonical
// catalog query: a lowercase space-joined title plus optional year, season,
// and episode numbers.
//
// Release names rarely follow one convention. The parser normalizes
// separators, locates the sNN[eNN] marker and well-known release-metadata
// tags (resolution, source, codec, audio), truncates at the leftmost of
// those, and finally treats a trailing 1900-2100 token as the year. Parsing
// never fails; unusable input degrades to an empty title with every optional
// field absent.
package filename
