// Command cinefill maintains a streaming-movie catalog: it syncs titles from
// TMDB, then enriches them with review scores and trailer links scraped from
// the public web.
package main
