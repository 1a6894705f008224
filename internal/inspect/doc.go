// Package inspect records a timeline of lifecycle activity and tracks the
// controllers that are currently active. It feeds inspection tooling; the
// dispatcher writes to it and nothing in the dispatch path reads it back.
package inspect
