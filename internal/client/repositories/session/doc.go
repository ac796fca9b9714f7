// Package session stores the signed-in user's tokens in the local SQLite
// database so that a restarted CLI can resume without a new login.
package session
