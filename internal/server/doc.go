// Package server hosts the local redirect endpoint of the OAuth authorization code flow.
//
// # Router
//
// [NewRouter] registers each [Handler] on a chi router for every path it reports from Routes,
// wrapped with panic recovery and debug request logging.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter, exchanges the code through an [Exchanger],
// and delivers exactly one [OAuthResult]. Only the first callback is processed.
//
// # Usage
//
// `spotx auth` binds a [CallbackServer] on the host of REDIRECT_URI, opens the authorize URL
// in a browser, waits on [OAuthHandler.Wait], then shuts the server down.
package server
