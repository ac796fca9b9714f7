// Package models defines client-side data models used by the fragments CLI.
package models
