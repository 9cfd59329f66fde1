/*
Package session implements the mount lifecycle of walkthrough modules.

A Manager creates one Player per mount, each with its own demo data, timer and
session counter, and guarantees that unmounting cancels any pending timer
before the mount is forgotten.
*/
package session
