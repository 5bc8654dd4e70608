// Package server exposes the scraper operations over HTTP in the XML shape
// Kodi's scraper framework expects.
//
// Routes:
//
//	GET /GetSearchResults/<release name>   ranked candidate list as XML
//	GET /GetDetails/<subject id>?episode=N subject metadata as XML
//	GET /GetImage?url=<absolute url>       raw image bytes
//	GET /api/stats                         cache statistics as JSON
//	GET /metrics                           Prometheus exposition
//
// Detail and image links embedded in responses point back at this server so
// Kodi never talks to the upstream catalog directly.
package server
