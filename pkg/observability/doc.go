/*
Package observability provides tools for monitoring walkthrough players.

It turns lifecycle hooks into Prometheus metrics and structured log lines, so
hosts can watch transitions, effects and rejected operations without touching
the playback engine.
*/
package observability
