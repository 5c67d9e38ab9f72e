package http

// Normalize exposes normalize for tests.
var Normalize = normalize
