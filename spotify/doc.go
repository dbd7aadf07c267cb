// Package spotify is a typed client for the Spotify Web API.
//
// # Dispatcher
//
// Every resource client sends its calls through one [Dispatcher]. It attaches the current access token as a
// bearer credential, and when the provider answers 401 it refreshes the token through a [Refresher] and resends
// the same [Request]. A [Request] is only a description of the call, so a fresh [http.Request] is built for
// every attempt. Concurrent 401s share a single refresh. Refreshes per call are capped by [WithMaxRefreshes];
// past the cap the error matches [ErrReauthenticationRequired].
//
// Any other non-success status becomes a [*StatusError]:
//
//	var se *spotify.StatusError
//	if errors.As(err, &se) && errors.Is(err, spotify.ErrNotFound) { ... }
//
// # Paging
//
// Collections come back as [Page] (offset based) or [CursorPage] (cursor based). A page remembers how to fetch
// its neighbours, so [Page.AllItems] can be called on any page, including one nested in an envelope such as a
// search result.
//
// # Batches
//
// Methods taking many ids split them into chunks of the provider's per-request maximum, send the chunks with
// bounded concurrency ([WithConcurrency], optionally throttled by [WithRateLimit]) and return the results in
// input order. Playlist item mutations are always sent sequentially.
//
// # Authentication
//
// [LoadCredentials] reads CLIENT_ID, CLIENT_SECRET and REDIRECT_URI, honouring a .env file.
// [Authenticator] implements the authorization-code flow and [Refresher].
package spotify
