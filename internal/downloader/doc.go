// Package downloader fetches a single image over HTTP on behalf of a user
// who supplied a URL instead of uploading a file.
//
// A download is one GET request validated step by step: URL syntax, scheme,
// connection, status code, Content-Type and Content-Length. The first failing
// check decides the Code of the Result. There are no retries, and nothing is
// shared between calls except the configuration.
package downloader
