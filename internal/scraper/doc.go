// Package scraper ties the filename normalizer, the read-through cache, the
// Douban client, and the result ranker into the three operations the serving
// layer exposes: Search, Details, and Image.
//
// Each operation builds its cache key from the query itself — the normalized
// title, the subject ID, or the image URL — so repeated Kodi scans hit the
// cache instead of the network.
package scraper
