// Package trailers resolves an official trailer link for catalog records.
//
// A record maps to one search query against the video site; the result page
// embeds its listing as a JSON blob inside a script tag, which is the primary
// extraction source. A plain anchor scan covers pages served without the
// blob. Extracted candidates are scored by a keyword table and the best one
// is accepted only above a confidence threshold, so a bad search never
// attaches a wrong link.
package trailers
