// Package movies implements the movie list core: reading a user's list grouped into buckets and
// writing entries with category normalization.
//
// # Reading
//
// [Reader.List] loads every entry a user owns and groups them with [Partition] into the watching,
// will-watch, and already-watched buckets. Matching is case-insensitive and accepts the space and
// hyphen spellings; entries in no bucket are dropped.
//
// # Writing
//
// [Writer.Save] checks the required fields (movieId, title, category), normalizes the category,
// confirms the user exists, then either moves the user's existing entry for the movie or creates a
// new one. Text fields are truncated to 191 characters and missing optional fields take defaults.
// Writes for one (user, movie) pair are serialized in process by a [KeyedMutex] and across
// processes by the store's upsert.
//
// [Writer.ResolveUser] supplies the user id for writes, falling back to a lookup by session email.
//
// # Errors
//
// Every failure is an [*Error] with a [Kind], an HTTP status, and a client-facing message.
// [Error.Body] renders the client view, keeping internal causes out of 500 bodies unless debug
// errors are enabled.
package movies
