// Package middleware groups the HTTP middleware of the server.
//
//   - auth: API key validation protecting every route.
//   - rayid: assigns every request a ray id, stored in the fiber locals and echoed in the
//     X-Ray-ID response header, so the logs of one sync request can be correlated.
package middleware
