/*
Package session serialises access to session positions.

A Manager wraps a ports.SessionStore with one mutex per live session, created on
demand and dropped as soon as nobody waits on it. When several engine replicas share a
Redis store, an optional ports.DistributedLocker extends the same guarantee across
processes.
*/
package session
