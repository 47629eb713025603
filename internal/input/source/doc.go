// Package source provides platform event sources feeding the input
// engine: a tcell-backed terminal source, an in-memory scripted source
// for tests, and a capture/replay pair for recording raw event streams
// to disk and playing them back.
//
// All sources implement input.Source: PollEvent blocks up to the given
// timeout and synthesizes KindTimeout and KindError events instead of
// returning nothing.
package source
