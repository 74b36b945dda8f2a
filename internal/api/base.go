// Package api holds one function per backend operation. Functions are
// stateless and idempotent on the client side: they translate a remote
// identifier into a typed snapshot (reads) or dispatch a single mutation
// (writes). Authorization headers are added by the transport layer, never
// here.
package api

const basePath = "/api"
