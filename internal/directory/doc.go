// ABOUTME: Package documentation for the directory service
// ABOUTME: User identities plus per-user contact and block lists

// Package directory owns user identities and the contact and block lists
// attached to each user. Logins are normalized exactly once, at this
// boundary, via NormalizeLogin; everything downstream compares with plain
// string equality.
package directory
