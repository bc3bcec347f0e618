/*
Package session implements per-session run management.

Each session owns at most one recorded run. The Manager serialises writes and reads of a
session with reference-counted local locks and, when several replicas share a store,
an optional distributed lock.
*/
package session
